// azurechat is a terminal chat client for Azure OpenAI deployments and
// OpenAI-compatible endpoints.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/tnglemongrass/azurechat/internal/chat"
	"github.com/tnglemongrass/azurechat/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: No endpoint configured. Set AZURE_OPENAI_ENDPOINT or use --endpoint.")
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: No API key configured. Set AZURE_OPENAI_API_KEY or use --api-key.")
	}

	// Remaining non-flag arguments form a one-shot question.
	if question := strings.TrimSpace(strings.Join(cfg.Args, " ")); question != "" {
		cfg.Markdown = false
		session, err := chat.NewSession(cfg, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
			os.Exit(1)
		}
		if err := session.Ask(context.Background(), question); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	session, err := chat.NewSession(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "azurechat> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("azurechat - terminal chat for Azure OpenAI")
	fmt.Printf("Deployment: %s | Endpoint: %s\n", cfg.Deployment, cfg.Endpoint)
	fmt.Println("Type /help for commands, /quit to exit.")

	readInput := func(_ string) (string, error) {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return line, err
	}

	if err := session.Run(readInput); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := home + "/.azurechat"
	_ = os.MkdirAll(dir, 0755)
	return dir + "/history"
}
