package main

import (
	"fmt"
	"os"

	"archivist/internal/llm"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	providerFlag    string
	modelFlag       string
	tokenFlag       string
	temperatureFlag float64
	maxTokensFlag   int
)

var rootCmd = &cobra.Command{
	Use:   "archivist",
	Short: "LLM-assisted database archival and retention analysis",
	Long: `Archivist pairs GitHub's hosted GPT-4.1 (or a Groq/OpenAI model) with
database schema introspection to group tables for purging, classify them
into Retention Class Codes, and find the columns that anchor retention.

It also exposes the model directly through chat and ask, and a ReAct
agent that answers free-form questions about a connected database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "github", "model provider (github, groq, openai)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model identifier (provider default if empty)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API credential (falls back to the provider's env var)")
	rootCmd.PersistentFlags().Float64Var(&temperatureFlag, "temperature", 0, "sampling temperature in [0, 1]")
	rootCmd.PersistentFlags().IntVar(&maxTokensFlag, "max-tokens", 0, "maximum output tokens (provider default if 0)")

	rootCmd.AddCommand(chatCmd, askCmd, analyzeCmd, agentCmd)
}

func main() {
	// .env is loaded once here; everything below takes explicit config.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildModel() (*llm.ChatModel, error) {
	return llm.NewChatModel(llm.Provider(providerFlag), llm.Config{
		Token:       resolveToken(),
		Model:       modelFlag,
		Temperature: temperatureFlag,
		MaxTokens:   maxTokensFlag,
	})
}

func resolveToken() string {
	if tokenFlag != "" {
		return tokenFlag
	}
	switch llm.Provider(providerFlag) {
	case llm.ProviderGroq:
		return os.Getenv("GROQ_API_KEY")
	case llm.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GITHUB_TOKEN")
	}
}
