package chat

import (
	"context"
	"errors"
	"strings"
)

// Service keeps an ordered conversation history on top of a Model.
type Service struct {
	model   Model
	history []Message
}

type ServiceOption func(*Service)

// WithSystemPrompt seeds the conversation with a system message.
func WithSystemPrompt(prompt string) ServiceOption {
	return func(s *Service) {
		if strings.TrimSpace(prompt) != "" {
			s.history = append(s.history, System(prompt))
		}
	}
}

func NewService(model Model, opts ...ServiceOption) *Service {
	s := &Service{
		model:   model,
		history: make([]Message, 0, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Send(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty input")
	}

	s.history = append(s.history, Human(input))
	resp, err := s.model.Invoke(ctx, s.history)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return "", err
	}
	assistant := strings.TrimSpace(resp.Content)
	if assistant == "" {
		s.history = s.history[:len(s.history)-1]
		return "", errors.New("empty response from model")
	}

	s.history = append(s.history, AI(assistant))
	return assistant, nil
}

// SendStream streams the assistant reply through onChunk and records the
// assembled text in the history once the stream completes. A failed turn
// leaves the history as it was before the call.
func (s *Service) SendStream(ctx context.Context, input string, onChunk func(string)) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty input")
	}

	s.history = append(s.history, Human(input))
	chunks, err := s.model.Stream(ctx, s.history)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return "", err
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			s.history = s.history[:len(s.history)-1]
			return "", chunk.Err
		}
		sb.WriteString(chunk.Content)
		if onChunk != nil && chunk.Content != "" {
			onChunk(chunk.Content)
		}
	}

	assistant := strings.TrimSpace(sb.String())
	if assistant == "" {
		s.history = s.history[:len(s.history)-1]
		return "", errors.New("empty response from model")
	}
	s.history = append(s.history, AI(assistant))
	return assistant, nil
}

// Clear resets the conversation, keeping a seeded system prompt if present.
func (s *Service) Clear() {
	if len(s.history) > 0 && s.history[0].Role == RoleSystem {
		s.history = s.history[:1]
		return
	}
	s.history = s.history[:0]
}

// History returns a copy of the conversation so far.
func (s *Service) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}
