package chat

// Role tags a conversation message. Message order is conversation order.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
)

type Message struct {
	Role    Role
	Content string
}

func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func Human(content string) Message  { return Message{Role: RoleHuman, Content: content} }
func AI(content string) Message     { return Message{Role: RoleAI, Content: content} }

// Usage carries the provider's token counters when it reports them.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Content string
	Usage   *Usage
}

// StreamChunk is one incremental fragment of a streamed response. A chunk
// with Err set is the last one delivered before the channel closes; chunks
// received earlier remain valid.
type StreamChunk struct {
	Content string
	Err     error
}
