package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"archivist/internal/chat"

	"github.com/tmc/langchaingo/llms"
)

// fakeClient stands in for the inference transport. It records every call so
// tests can assert that validation failures never reach the network.
type fakeClient struct {
	resp      *llms.ContentResponse
	err       error
	fragments []string
	streamErr error

	calls       int
	gotMessages []llms.MessageContent
	gotOpts     llms.CallOptions
}

func (f *fakeClient) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.gotMessages = messages
	f.gotOpts = llms.CallOptions{}
	for _, opt := range options {
		opt(&f.gotOpts)
	}

	if f.gotOpts.StreamingFunc != nil {
		for _, fragment := range f.fragments {
			if err := f.gotOpts.StreamingFunc(ctx, []byte(fragment)); err != nil {
				return nil, err
			}
		}
		if f.streamErr != nil {
			return nil, f.streamErr
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func conversation() []chat.Message {
	return []chat.Message{
		chat.System("You are a helpful AI assistant."),
		chat.Human("What is the capital of France?"),
	}
}

func TestTranslatePreservesRoleOrder(t *testing.T) {
	messages := []chat.Message{
		chat.System("rules"),
		chat.Human("question"),
		chat.AI("answer"),
		chat.Human("followup"),
	}
	translated, err := translate(messages)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if len(translated) != len(messages) {
		t.Fatalf("expected %d messages, got %d", len(messages), len(translated))
	}

	wantRoles := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	for i, mc := range translated {
		if mc.Role != wantRoles[i] {
			t.Fatalf("slot %d: expected role %s, got %s", i, wantRoles[i], mc.Role)
		}
		text, ok := mc.Parts[0].(llms.TextContent)
		if !ok {
			t.Fatalf("slot %d: expected text part, got %T", i, mc.Parts[0])
		}
		if text.Text != messages[i].Content {
			t.Fatalf("slot %d: expected content %q, got %q", i, messages[i].Content, text.Text)
		}
	}
}

func TestUnknownRoleFailsBeforeTransport(t *testing.T) {
	fake := &fakeClient{}
	model := newWithClient(fake, Config{Model: "openai/gpt-4.1"})
	bad := []chat.Message{{Role: "tool", Content: "x"}}

	if _, err := model.Invoke(context.Background(), bad); !errors.Is(err, ErrUnsupportedRole) {
		t.Fatalf("expected ErrUnsupportedRole from Invoke, got %v", err)
	}
	if _, err := model.Stream(context.Background(), bad); !errors.Is(err, ErrUnsupportedRole) {
		t.Fatalf("expected ErrUnsupportedRole from Stream, got %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("expected zero transport calls, got %d", fake.calls)
	}
}

func TestConstructionRequiresToken(t *testing.T) {
	if _, err := NewGitHub(Config{}); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestConstructionRejectsBadTemperature(t *testing.T) {
	_, err := NewGitHub(Config{Token: "t", Temperature: 1.5})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	if _, err := NewChatModel("mystery", Config{Token: "t"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestInvokeReturnsContentAndUsage(t *testing.T) {
	fake := &fakeClient{
		resp: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{
				Content: "Paris.",
				GenerationInfo: map[string]any{
					"PromptTokens":     12,
					"CompletionTokens": 3,
					"TotalTokens":      15,
				},
			}},
		},
	}
	model := newWithClient(fake, Config{Model: "openai/gpt-4.1", MaxTokens: 256})

	resp, err := model.Invoke(context.Background(), conversation())
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if resp.Content != "Paris." {
		t.Fatalf("expected content %q, got %q", "Paris.", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 || resp.Usage.PromptTokens != 12 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}

	if len(fake.gotMessages) != 2 {
		t.Fatalf("expected 2 translated messages, got %d", len(fake.gotMessages))
	}
	if fake.gotOpts.Model != "openai/gpt-4.1" {
		t.Fatalf("expected configured model to be forwarded, got %q", fake.gotOpts.Model)
	}
	if fake.gotOpts.MaxTokens != 256 {
		t.Fatalf("expected max tokens 256, got %d", fake.gotOpts.MaxTokens)
	}
}

func TestInvokeEmptyChoicesIsInvocationError(t *testing.T) {
	fake := &fakeClient{resp: &llms.ContentResponse{}}
	model := newWithClient(fake, Config{})

	_, err := model.Invoke(context.Background(), conversation())
	if !errors.Is(err, ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
}

func TestInvokeWrapsTransportFailure(t *testing.T) {
	cause := errors.New("connection reset")
	fake := &fakeClient{err: cause}
	model := newWithClient(fake, Config{})

	_, err := model.Invoke(context.Background(), conversation())
	if !errors.Is(err, ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to stay reachable, got %v", err)
	}
}

func TestStreamConcatenatesToInvokeResult(t *testing.T) {
	fake := &fakeClient{
		fragments: []string{"Par", "is."},
		resp: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "Paris."}},
		},
	}
	model := newWithClient(fake, Config{})

	chunks, err := model.Stream(context.Background(), conversation())
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	var got []string
	for chunk := range chunks {
		if chunk.Err != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Err)
		}
		got = append(got, chunk.Content)
	}
	if len(got) != 2 || got[0] != "Par" || got[1] != "is." {
		t.Fatalf("unexpected chunks: %v", got)
	}

	invoked, err := model.Invoke(context.Background(), conversation())
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if strings.Join(got, "") != invoked.Content {
		t.Fatalf("stream concatenation %q != invoke content %q", strings.Join(got, ""), invoked.Content)
	}
}

func TestStreamMidFailureDeliversChunksThenError(t *testing.T) {
	fake := &fakeClient{
		fragments: []string{"Par"},
		streamErr: errors.New("connection reset"),
	}
	model := newWithClient(fake, Config{})

	chunks, err := model.Stream(context.Background(), conversation())
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	first, ok := <-chunks
	if !ok || first.Err != nil || first.Content != "Par" {
		t.Fatalf("expected valid first chunk, got %+v ok=%t", first, ok)
	}
	second, ok := <-chunks
	if !ok || !errors.Is(second.Err, ErrInvocation) {
		t.Fatalf("expected invocation error chunk, got %+v ok=%t", second, ok)
	}
	if _, ok := <-chunks; ok {
		t.Fatal("expected channel closed after error chunk")
	}
}

func TestGenerateContentWrapsProviderFailure(t *testing.T) {
	cause := errors.New("429 too many requests")
	fake := &fakeClient{err: cause}
	model := newWithClient(fake, Config{Model: "openai/gpt-4.1"})

	_, err := model.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "hi"),
	})
	if !errors.Is(err, ErrInvocation) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped invocation error, got %v", err)
	}
}
