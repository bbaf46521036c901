// Package tokens estimates prompt token usage with tiktoken.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/tnglemongrass/azurechat/internal/llm"
)

const fallbackEncoding = "cl100k_base"

// Overhead constants from the OpenAI token counting cookbook: every
// message carries framing tokens, and the reply is primed with a few more.
const (
	tokensPerMessage = 4
	tokensPerReply   = 3
)

// Counter counts tokens for a specific model's encoding.
type Counter struct {
	encode func(text string) int
}

// NewCounter creates a Counter for the given deployment or model name.
// Names tiktoken does not recognize (Azure deployment names are
// user-chosen) fall back to the cl100k_base encoding.
func NewCounter(model string) (*Counter, error) {
	enc, err := tiktoken.EncodingForModel(NormalizeModel(model))
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("load %s encoding: %w", fallbackEncoding, err)
		}
	}
	return &Counter{
		encode: func(text string) int { return len(enc.Encode(text, nil, nil)) },
	}, nil
}

// Count returns the token count of a single string.
func (c *Counter) Count(text string) int {
	return c.encode(text)
}

// CountMessages estimates the prompt tokens a conversation will consume,
// including per-message framing and reply priming.
func (c *Counter) CountMessages(messages []llm.Message) int {
	total := tokensPerReply
	for _, m := range messages {
		total += tokensPerMessage
		total += c.encode(m.Role)
		total += c.encode(m.Content)
	}
	return total
}

// NormalizeModel maps Azure deployment naming to the canonical model names
// tiktoken knows. Unrecognized names pass through unchanged.
func NormalizeModel(model string) string {
	switch model {
	case "gpt-35-turbo":
		return "gpt-3.5-turbo"
	case "gpt-35-turbo-16k":
		return "gpt-3.5-turbo-16k"
	}
	return model
}
