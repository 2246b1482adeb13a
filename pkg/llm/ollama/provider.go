package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"symptom-checker-be/pkg/llm"
)

const DefaultBaseURL = "http://localhost:11434"

// Provider calls a local Ollama server through its native chat API.
// Ollama cannot force a specific tool, so a reply through any other
// function is rejected as malformed.
type Provider struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.ToolCaller = &Provider{}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Tools    []llm.Tool    `json:"tools"`
	Stream   bool          `json:"stream"`
	Options  modelOptions  `json:"options"`
}

type modelOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// Ollama returns arguments as a JSON object, not an encoded string.
type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		ToolCalls []struct {
			Function struct {
				Name      string          `json:"name"`
				Arguments json.RawMessage `json:"arguments"`
			} `json:"function"`
		} `json:"tool_calls"`
	} `json:"message"`
}

func NewProvider(baseURL, model string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Provider) CallTool(ctx context.Context, history []llm.Message, tool llm.Tool, options ...llm.Option) (*llm.ToolCallResult, error) {
	opts := &llm.Options{Model: p.model, Temperature: 0.2}
	for _, o := range options {
		o(opts)
	}

	reqBody := chatRequest{
		Model:    opts.Model,
		Messages: history,
		Tools:    []llm.Tool{tool},
		Options:  modelOptions{Temperature: opts.Temperature, NumPredict: opts.MaxTokens},
	}

	body, status, err := llm.PostJSON(ctx, p.client, p.baseURL+"/api/chat", nil, reqBody)
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, llm.Malformed(status, "response is not a chat envelope", err)
	}

	for _, tc := range chatResp.Message.ToolCalls {
		if tc.Function.Name != tool.Function.Name {
			continue
		}
		if len(tc.Function.Arguments) == 0 || !json.Valid(tc.Function.Arguments) {
			return nil, llm.Malformed(status, "tool call arguments are not valid json", nil)
		}
		return &llm.ToolCallResult{
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
			Model:     chatResp.Model,
		}, nil
	}
	return nil, llm.Malformed(status, "no "+tool.Function.Name+" tool call in response", nil)
}
