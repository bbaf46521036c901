// Package chat manages the interactive chat session with the completion endpoint.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tnglemongrass/azurechat/internal/commands"
	"github.com/tnglemongrass/azurechat/internal/config"
	"github.com/tnglemongrass/azurechat/internal/llm"
	"github.com/tnglemongrass/azurechat/internal/models"
	"github.com/tnglemongrass/azurechat/internal/prompts"
	"github.com/tnglemongrass/azurechat/internal/render"
	"github.com/tnglemongrass/azurechat/internal/tokens"
)

// InputReader reads a line of user input. Returns the line and any error (io.EOF on end).
type InputReader func(prompt string) (string, error)

// Session manages the state of a single chat conversation.
type Session struct {
	cfg      *config.Config
	client   *llm.Client
	renderer *render.Renderer
	cmdReg   *commands.Registry
	modelMgr *models.Manager

	history []llm.Message
	writer  io.Writer
}

// NewSession creates a new chat session from the given configuration.
func NewSession(cfg *config.Config, w io.Writer) (*Session, error) {
	if w == nil {
		w = os.Stdout
	}

	var r *render.Renderer
	if cfg.Markdown {
		var err error
		r, err = render.NewRenderer(w)
		if err != nil {
			return nil, fmt.Errorf("create renderer: %w", err)
		}
	} else {
		r = render.NewPlainRenderer(w)
	}

	client := llm.NewClient(cfg.APIType, cfg.Endpoint, cfg.APIKey, cfg.APIVersion, cfg.Deployment)

	s := &Session{
		cfg:      cfg,
		client:   client,
		renderer: r,
		modelMgr: models.NewManager(client),
		history:  nil,
		writer:   w,
	}

	reg := commands.NewRegistry(w)
	commands.RegisterDefaults(reg, commands.Callbacks{
		OnClear:       s.clearHistory,
		OnModel:       s.switchModel,
		OnSystem:      s.systemPrompt,
		OnConfig:      s.showConfig,
		OnStream:      s.toggleStream,
		OnTemperature: s.setTemperature,
		OnTokens:      s.estimateTokens,
	})
	s.cmdReg = reg

	return s, nil
}

// Run starts the main chat loop using the provided input reader.
func (s *Session) Run(readInput InputReader) error {
	for {
		input, err := readInput("azurechat> ")
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if output, isCmd := s.cmdReg.Execute(input); isCmd {
			if output == "__QUIT__" {
				return nil
			}
			fmt.Fprintln(s.writer, output)
			continue
		}

		if err := s.sendMessage(context.Background(), input); err != nil {
			fmt.Fprintf(s.writer, "Error: %v\n", err)
		}
	}
}

// Ask sends a single question and renders every returned choice. Used by
// one-shot mode; the session's history still records the exchange.
func (s *Session) Ask(ctx context.Context, question string) error {
	return s.sendMessage(ctx, question)
}

// Messages returns the current message history (read-only copy).
func (s *Session) Messages() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) params() llm.Params {
	return llm.Params{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		N:           s.cfg.N,
		Stop:        s.cfg.Stop,
	}
}

func (s *Session) buildMessages(userMsg string) []llm.Message {
	var msgs []llm.Message
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: prompts.SystemPrompt(s.cfg.System)})
	msgs = append(msgs, s.history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userMsg})
	return msgs
}

func (s *Session) sendMessage(ctx context.Context, userMsg string) error {
	msgs := s.buildMessages(userMsg)

	// Streaming with n > 1 interleaves choices; collect instead.
	if s.cfg.Stream && s.cfg.N <= 1 {
		if err := s.sendStreaming(ctx, msgs, userMsg); err != nil {
			return err
		}
		return nil
	}

	var choices []llm.Choice
	if s.cfg.Stream {
		stream, err := s.client.CompleteStream(ctx, msgs, s.params())
		if err != nil {
			return err
		}
		choices, err = llm.Collect(stream)
		if err != nil {
			return err
		}
	} else {
		resp, err := s.client.Complete(ctx, msgs, s.params())
		if err != nil {
			return err
		}
		choices = resp.Choices
	}
	if len(choices) == 0 {
		return errors.New("no choices in response")
	}

	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: userMsg},
		llm.Message{Role: llm.RoleAssistant, Content: choices[0].Message.Content},
	)

	for i, choice := range choices {
		if len(choices) > 1 {
			fmt.Fprintf(s.writer, "--- choice %d ---\n", i+1)
		}
		if err := s.renderer.Render(choice.Message.Content); err != nil {
			return err
		}
		if choice.FinishReason == llm.FinishLength {
			fmt.Fprintln(s.writer, "[truncated by max tokens]")
		}
	}
	return nil
}

func (s *Session) sendStreaming(ctx context.Context, msgs []llm.Message, userMsg string) error {
	stream, err := s.client.CompleteStream(ctx, msgs, s.params())
	if err != nil {
		return err
	}
	defer stream.Close()

	var full strings.Builder
	var finish string
	var acc string
	for {
		inc, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if inc.FinishReason != "" {
			finish = inc.FinishReason
		}
		if inc.Content == "" {
			continue
		}
		full.WriteString(inc.Content)
		var renderErr error
		acc, renderErr = s.renderer.RenderStream(acc, inc.Content, false)
		if renderErr != nil {
			fmt.Fprintf(s.writer, "\nRender error: %v\n", renderErr)
		}
	}
	// Flush remaining content.
	if acc != "" {
		if _, renderErr := s.renderer.RenderStream(acc, "", true); renderErr != nil {
			fmt.Fprintf(s.writer, "\nRender error: %v\n", renderErr)
		}
	}
	if finish == llm.FinishLength {
		fmt.Fprintln(s.writer, "[truncated by max tokens]")
	}

	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: userMsg},
		llm.Message{Role: llm.RoleAssistant, Content: full.String()},
	)
	return nil
}

func (s *Session) clearHistory() {
	s.history = nil
}

func (s *Session) switchModel(args string) string {
	if args == "" {
		modelList, err := s.modelMgr.List()
		if err != nil {
			return fmt.Sprintf("Error listing models: %v", err)
		}
		var sb strings.Builder
		sb.WriteString("Available models:\n")
		for _, m := range modelList {
			marker := "  "
			if m.ID == s.client.Deployment {
				marker = "* "
			}
			sb.WriteString(fmt.Sprintf("%s%s\n", marker, m.ID))
		}
		return sb.String()
	}
	s.client.Deployment = args
	s.cfg.Deployment = args
	return fmt.Sprintf("Switched to deployment: %s", args)
}

func (s *Session) systemPrompt(args string) string {
	if args == "" {
		return prompts.SystemPrompt(s.cfg.System)
	}
	s.cfg.System = args
	return "System prompt updated."
}

func (s *Session) showConfig() string {
	return fmt.Sprintf("API Type: %s\nEndpoint: %s\nAPI Version: %s\nDeployment: %s\nMax Tokens: %d\nTemperature: %.1f\nN: %d\nStop: %s\nStream: %v\nMarkdown: %v",
		s.cfg.APIType, s.cfg.Endpoint, s.cfg.APIVersion, s.cfg.Deployment,
		s.cfg.MaxTokens, s.cfg.Temperature, s.cfg.N, strings.Join(s.cfg.Stop, ", "),
		s.cfg.Stream, s.cfg.Markdown)
}

func (s *Session) toggleStream(args string) string {
	switch args {
	case "on":
		s.cfg.Stream = true
	case "off":
		s.cfg.Stream = false
	case "":
		s.cfg.Stream = !s.cfg.Stream
	default:
		return "Usage: /stream [on|off]"
	}
	if s.cfg.Stream {
		return "Streaming enabled."
	}
	return "Streaming disabled."
}

func (s *Session) setTemperature(args string) string {
	if args == "" {
		return fmt.Sprintf("Temperature: %g", s.cfg.Temperature)
	}
	v, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return fmt.Sprintf("Invalid temperature: %s", args)
	}
	if v < 0 || v > 2 {
		return "Temperature must be within [0, 2]."
	}
	s.cfg.Temperature = v
	return fmt.Sprintf("Temperature set to %g.", v)
}

func (s *Session) estimateTokens() string {
	counter, err := tokens.NewCounter(s.cfg.Deployment)
	if err != nil {
		return fmt.Sprintf("Error loading token encoding: %v", err)
	}
	msgs := append([]llm.Message{
		{Role: llm.RoleSystem, Content: prompts.SystemPrompt(s.cfg.System)},
	}, s.history...)
	return fmt.Sprintf("Estimated prompt tokens: %d", counter.CountMessages(msgs))
}
