// Package llm provides a chat completion client for Azure OpenAI
// deployments and OpenAI-compatible endpoints.
package llm

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reasons reported by the API.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// Message represents a single message in a conversation. Order within a
// conversation is chronological turn order.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params holds the generation parameters for a single completion call.
// Zero values for MaxTokens and N mean "provider default".
type Params struct {
	MaxTokens   int
	Temperature float64
	N           int
	Stop        []string
}

// completionRequest is the request body for the chat completions endpoint.
// Temperature carries no omitempty: 0 is a meaningful value (greedy sampling).
type completionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	N           int       `json:"n,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// Choice is one independently generated completion among the n requested.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage tracks token counts for a completed request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the full response to a non-streaming completion call.
type Completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// apiErrorBody is the error envelope returned by the API on failures.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// streamDelta holds the incremental content in a streamed chunk.
type streamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// streamChoice is a single choice within a streamed chunk.
type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

// streamChunk is a single Server-Sent Events chunk during streaming.
type streamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Choices []streamChoice `json:"choices"`
}

// Increment is one element of a streamed completion: a content delta for
// the choice at Index. FinishReason is non-empty only on the final
// increment carrying that choice's finish reason.
type Increment struct {
	Index        int
	Content      string
	FinishReason string
}

// ModelInfo represents a single model or deployment known to the endpoint.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}
