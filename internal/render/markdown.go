// Package render provides terminal output rendering for model responses.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer writes model responses to the terminal, either as styled
// markdown or as plain text for piped output.
type Renderer struct {
	gr     *glamour.TermRenderer
	writer io.Writer
	plain  bool
}

// NewRenderer creates a markdown Renderer writing to the given writer.
// If w is nil, os.Stdout is used.
func NewRenderer(w io.Writer) (*Renderer, error) {
	if w == nil {
		w = os.Stdout
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("create glamour renderer: %w", err)
	}
	return &Renderer{gr: gr, writer: w}, nil
}

// NewPlainRenderer creates a Renderer that writes content verbatim with a
// trailing newline. Used for one-shot output.
func NewPlainRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{writer: w, plain: true}
}

// Render renders a complete response string to the writer.
func (r *Renderer) Render(content string) error {
	if r.plain {
		_, err := fmt.Fprintln(r.writer, strings.TrimRight(content, "\n"))
		return err
	}
	out, err := r.gr.Render(content)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = fmt.Fprint(r.writer, out)
	return err
}

// RenderStream progressively renders streamed content.
// It accumulates deltas and renders when a complete block boundary is detected
// or when flush is true.
func (r *Renderer) RenderStream(accumulated string, delta string, flush bool) (string, error) {
	accumulated += delta
	if r.plain {
		// Plain mode writes deltas through as they arrive; flush only
		// terminates the line.
		if delta != "" {
			if _, err := fmt.Fprint(r.writer, delta); err != nil {
				return "", err
			}
		}
		if flush {
			if _, err := fmt.Fprintln(r.writer); err != nil {
				return "", err
			}
			return "", nil
		}
		return accumulated, nil
	}
	if flush || strings.Contains(delta, "\n\n") || strings.HasSuffix(accumulated, "```\n") {
		if err := r.Render(accumulated); err != nil {
			return "", err
		}
		return "", nil // reset accumulator after rendering
	}
	return accumulated, nil
}
