package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// API types supported by the client.
const (
	APITypeAzure  = "azure"
	APITypeOpenAI = "openai"
)

// Client communicates with a chat completions endpoint. All fields are
// fixed at construction; the client holds no per-call state, so a single
// Client is safe for concurrent use.
type Client struct {
	APIType    string
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	HTTPClient *http.Client
}

// NewClient creates a Client for an Azure OpenAI deployment. For
// APITypeOpenAI, deployment is sent as the model field instead of being
// part of the URL and apiVersion is ignored.
func NewClient(apiType, endpoint, apiKey, apiVersion, deployment string) *Client {
	return &Client{
		APIType:    apiType,
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     apiKey,
		APIVersion: apiVersion,
		Deployment: deployment,
		HTTPClient: http.DefaultClient,
	}
}

// CompletionsURL returns the chat completions URL for the configured
// endpoint, API type, and deployment.
func (c *Client) CompletionsURL() string {
	if c.APIType == APITypeAzure {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			c.Endpoint, url.PathEscape(c.Deployment), url.QueryEscape(c.APIVersion))
	}
	return c.Endpoint + "/v1/chat/completions"
}

// ModelsURL returns the model listing URL for the configured endpoint.
func (c *Client) ModelsURL() string {
	if c.APIType == APITypeAzure {
		return fmt.Sprintf("%s/openai/models?api-version=%s", c.Endpoint, url.QueryEscape(c.APIVersion))
	}
	return c.Endpoint + "/v1/models"
}

// validate rejects a call before any network I/O happens.
func (c *Client) validate(messages []Message, params Params) *Error {
	if len(messages) == 0 {
		return invalidRequestErr("messages must not be empty")
	}
	if c.Deployment == "" {
		return invalidRequestErr("deployment must not be empty")
	}
	if params.N < 0 {
		return invalidRequestErr("n must be >= 1, got %d", params.N)
	}
	if params.MaxTokens < 0 {
		return invalidRequestErr("max_tokens must be >= 1, got %d", params.MaxTokens)
	}
	if params.Temperature < 0 || params.Temperature > 2 {
		return invalidRequestErr("temperature must be within [0, 2], got %g", params.Temperature)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, messages []Message, params Params, stream bool) (*http.Request, *Error) {
	req := completionRequest{
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		N:           params.N,
		Stop:        params.Stop,
		Stream:      stream,
	}
	if c.APIType != APITypeAzure {
		req.Model = c.Deployment
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, invalidRequestErr("marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.CompletionsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, invalidRequestErr("create request: %v", err)
	}
	c.setHeaders(httpReq)
	return httpReq, nil
}

// Complete sends one non-streaming chat completion request and returns all
// requested choices. Exactly one outbound call is made per invocation; no
// retries.
func (c *Client) Complete(ctx context.Context, messages []Message, params Params) (*Completion, error) {
	if err := c.validate(messages, params); err != nil {
		return nil, err
	}

	httpReq, reqErr := c.newRequest(ctx, messages, params, false)
	if reqErr != nil {
		return nil, reqErr
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, transportErr("do request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, statusErr(resp.StatusCode, respBody)
	}

	var result Completion
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, transportErr("decode response", err)
	}
	return &result, nil
}

// Stream is a lazy, finite sequence of content increments from one
// streaming completion call. It is not restartable: once Recv returns
// io.EOF or an error, the stream is exhausted.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

// Recv returns the next increment. It returns io.EOF after the terminal
// [DONE] sentinel or when the server closes the stream.
func (s *Stream) Recv() (Increment, error) {
	if s.done {
		return Increment{}, io.EOF
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			s.done = true
			return Increment{}, io.EOF
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		inc := Increment{Index: choice.Index, Content: choice.Delta.Content}
		if choice.FinishReason != nil {
			inc.FinishReason = *choice.FinishReason
		}
		return inc, nil
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return Increment{}, transportErr("read stream", err)
	}
	return Increment{}, io.EOF
}

// Close releases the underlying connection. Safe to call more than once.
func (s *Stream) Close() error {
	s.done = true
	return s.body.Close()
}

// CompleteStream sends a streaming chat completion request and returns the
// increment sequence. The caller must drain or Close the stream.
func (c *Client) CompleteStream(ctx context.Context, messages []Message, params Params) (*Stream, error) {
	if err := c.validate(messages, params); err != nil {
		return nil, err
	}

	httpReq, reqErr := c.newRequest(ctx, messages, params, true)
	if reqErr != nil {
		return nil, reqErr
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, transportErr("do request", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, statusErr(resp.StatusCode, respBody)
	}

	return &Stream{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}, nil
}

// Collect drains a stream, concatenating deltas per choice index. It
// returns the assembled content in index order along with each choice's
// finish reason.
func Collect(s *Stream) ([]Choice, error) {
	defer s.Close()

	contents := make(map[int]*strings.Builder)
	reasons := make(map[int]string)
	maxIndex := -1
	for {
		inc, err := s.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if inc.Index > maxIndex {
			maxIndex = inc.Index
		}
		b, ok := contents[inc.Index]
		if !ok {
			b = &strings.Builder{}
			contents[inc.Index] = b
		}
		b.WriteString(inc.Content)
		if inc.FinishReason != "" {
			reasons[inc.Index] = inc.FinishReason
		}
	}

	choices := make([]Choice, 0, maxIndex+1)
	for i := 0; i <= maxIndex; i++ {
		content := ""
		if b, ok := contents[i]; ok {
			content = b.String()
		}
		choices = append(choices, Choice{
			Index:        i,
			Message:      Message{Role: RoleAssistant, Content: content},
			FinishReason: reasons[i],
		})
	}
	return choices, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	c.Authorize(req)
}

// Authorize sets the credential header for the configured API type: api-key
// for Azure, bearer token otherwise. No header is set without a key.
func (c *Client) Authorize(req *http.Request) {
	if c.APIKey == "" {
		return
	}
	if c.APIType == APITypeAzure {
		req.Header.Set("api-key", c.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}
