package llm

import (
	"context"
	"fmt"

	"archivist/internal/chat"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// GitHubEndpoint is GitHub's hosted model inference endpoint.
	GitHubEndpoint = "https://models.github.ai/inference"
	// GitHubDefaultModel is GitHub's hosted GPT-4.1.
	GitHubDefaultModel = "openai/gpt-4.1"
)

// Config carries everything the adapter needs at construction time. The
// credential is explicit; loading it from the environment or a .env file is
// the caller's job, done once at startup.
type Config struct {
	Token       string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatModel adapts an OpenAI-compatible hosted chat completion API to the
// chat.Model capability and to langchaingo's llms.Model, so the same
// instance backs the conversation service as well as chains and agents.
//
// The adapter holds no mutable state between calls; concurrent Invoke and
// Stream calls are independent.
type ChatModel struct {
	client      llms.Model
	model       string
	temperature float64
	maxTokens   int
}

var (
	_ chat.Model = (*ChatModel)(nil)
	_ llms.Model = (*ChatModel)(nil)
)

func newModel(cfg Config) (*ChatModel, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return nil, fmt.Errorf("%w: temperature %v outside [0, 1]", ErrInvalidConfig, cfg.Temperature)
	}
	if cfg.MaxTokens < 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive", ErrInvalidConfig)
	}

	opts := []openai.Option{
		openai.WithToken(cfg.Token),
		openai.WithModel(cfg.Model),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return newWithClient(client, cfg), nil
}

// newWithClient wires an existing inference client; tests inject fakes here.
func newWithClient(client llms.Model, cfg Config) *ChatModel {
	return &ChatModel{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Invoke sends the translated conversation as one blocking call and wraps
// the provider's first choice plus token usage, when reported.
func (m *ChatModel) Invoke(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	translated, err := translate(messages)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.GenerateContent(ctx, translated, m.callOptions()...)
	if err != nil {
		return nil, invocationError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from model", ErrInvocation)
	}

	choice := resp.Choices[0]
	return &chat.Response{
		Content: choice.Content,
		Usage:   usageFromInfo(choice.GenerationInfo),
	}, nil
}

// Stream opens a streaming call and forwards each fragment to the returned
// channel as it arrives. The channel closes when the stream ends; a
// mid-stream failure is delivered as one final chunk with Err set and
// already-delivered chunks stay valid. Translation and validation happen
// before the call, so a bad role never reaches the network.
func (m *ChatModel) Stream(ctx context.Context, messages []chat.Message) (<-chan chat.StreamChunk, error) {
	translated, err := translate(messages)
	if err != nil {
		return nil, err
	}

	out := make(chan chat.StreamChunk)
	go func() {
		defer close(out)
		opts := append(m.callOptions(), llms.WithStreamingFunc(func(ctx context.Context, fragment []byte) error {
			if len(fragment) == 0 {
				return nil
			}
			select {
			case out <- chat.StreamChunk{Content: string(fragment)}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}))
		if _, err := m.client.GenerateContent(ctx, translated, opts...); err != nil {
			select {
			case out <- chat.StreamChunk{Err: invocationError(err)}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

// GenerateContent implements llms.Model so the adapter composes into
// langchaingo chains and agents. The configured parameters act as defaults;
// options passed by the caller are applied on top.
func (m *ChatModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := append(m.callOptions(), options...)
	resp, err := m.client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, invocationError(err)
	}
	return resp, nil
}

// Call implements the single-prompt entry point of llms.Model.
func (m *ChatModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *ChatModel) callOptions() []llms.CallOption {
	opts := make([]llms.CallOption, 0, 4)
	if m.model != "" {
		opts = append(opts, llms.WithModel(m.model))
	}
	opts = append(opts, llms.WithTemperature(m.temperature))
	if m.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(m.maxTokens))
	}
	return opts
}

// translate maps each message role-for-role, preserving order. No messages
// are reordered, merged, or dropped.
func translate(messages []chat.Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case chat.RoleHuman:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		case chat.RoleAI:
			out = append(out, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedRole, m.Role)
		}
	}
	return out, nil
}

func usageFromInfo(info map[string]any) *chat.Usage {
	if info == nil {
		return nil
	}
	var u chat.Usage
	found := false
	if v, ok := info["PromptTokens"].(int); ok {
		u.PromptTokens = v
		found = true
	}
	if v, ok := info["CompletionTokens"].(int); ok {
		u.CompletionTokens = v
		found = true
	}
	if v, ok := info["TotalTokens"].(int); ok {
		u.TotalTokens = v
		found = true
	}
	if !found {
		return nil
	}
	return &u
}
