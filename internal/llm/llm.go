package llm

import "fmt"

type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
)

const (
	groqEndpoint     = "https://api.groq.com/openai/v1"
	groqDefaultModel = "llama-3.3-70b-versatile"

	openAIDefaultModel = "gpt-4o"
)

// NewChatModel builds an adapter for the given provider, filling in that
// provider's endpoint and default model where the config leaves them empty.
func NewChatModel(provider Provider, cfg Config) (*ChatModel, error) {
	switch provider {
	case ProviderGitHub, "":
		return NewGitHub(cfg)
	case ProviderGroq:
		return NewGroq(cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrInvalidConfig, provider)
	}
}

// NewGitHub builds an adapter for GitHub's hosted GPT-4.1.
func NewGitHub(cfg Config) (*ChatModel, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = GitHubEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = GitHubDefaultModel
	}
	return newModel(cfg)
}

// NewGroq builds an adapter for Groq's OpenAI-compatible API.
func NewGroq(cfg Config) (*ChatModel, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = groqEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = groqDefaultModel
	}
	return newModel(cfg)
}

// NewOpenAI builds an adapter against the stock OpenAI API.
func NewOpenAI(cfg Config) (*ChatModel, error) {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	return newModel(cfg)
}
