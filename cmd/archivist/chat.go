package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"archivist/internal/chat"

	"github.com/spf13/cobra"
)

var systemPromptFlag string

func init() {
	for _, cmd := range []*cobra.Command{chatCmd, askCmd} {
		cmd.Flags().StringVar(&systemPromptFlag, "system", "You are a helpful AI assistant.", "system prompt seeding the conversation")
	}
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive streaming chat with the configured model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		model, err := buildModel()
		if err != nil {
			return err
		}
		service := chat.NewService(model, chat.WithSystemPrompt(systemPromptFlag))

		fmt.Printf("archivist chat (provider=%s)\n", providerFlag)
		fmt.Println("Type /exit to quit, /clear to reset context.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				fmt.Println()
				return nil
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			switch input {
			case "/exit", "exit", "quit":
				return nil
			case "/clear":
				service.Clear()
				fmt.Println("context cleared")
				continue
			}

			turnCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			_, err := service.SendStream(turnCtx, input, func(fragment string) {
				fmt.Print(fragment)
			})
			cancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Println()
		}
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "One-shot question to the configured model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := buildModel()
		if err != nil {
			return err
		}

		resp, err := model.Invoke(cmd.Context(), []chat.Message{
			chat.System(systemPromptFlag),
			chat.Human(strings.Join(args, " ")),
		})
		if err != nil {
			return err
		}
		fmt.Println(resp.Content)
		if resp.Usage != nil {
			fmt.Fprintf(os.Stderr, "tokens: prompt=%d completion=%d total=%d\n",
				resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
		}
		return nil
	},
}
