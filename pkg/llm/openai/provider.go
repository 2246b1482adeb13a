package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"symptom-checker-be/pkg/llm"
)

// Provider talks to any OpenAI compatible chat-completions endpoint
// (OpenAI, AI gateways, HuggingFace router).
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.ToolCaller = &Provider{}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Tools       []llm.Tool    `json:"tools"`
	ToolChoice  toolChoice    `json:"tool_choice"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func NewProvider(apiKey, baseURL, model string, timeout time.Duration) *Provider {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Provider) CallTool(ctx context.Context, history []llm.Message, tool llm.Tool, options ...llm.Option) (*llm.ToolCallResult, error) {
	if p.apiKey == "" {
		return nil, &llm.GatewayError{Kind: llm.KindUnauthorized, Message: "completion api key is not configured"}
	}

	opts := &llm.Options{Model: p.model}
	for _, o := range options {
		o(opts)
	}

	reqBody := chatRequest{
		Model:       opts.Model,
		Messages:    history,
		Tools:       []llm.Tool{tool},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	reqBody.ToolChoice.Type = "function"
	reqBody.ToolChoice.Function.Name = tool.Function.Name

	body, status, err := llm.PostJSON(ctx, p.client, p.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + p.apiKey}, reqBody)
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, llm.Malformed(status, "response is not a completion envelope", err)
	}

	if len(chatResp.Choices) == 0 || len(chatResp.Choices[0].Message.ToolCalls) == 0 {
		return nil, llm.Malformed(status, "no tool call in response", nil)
	}

	call := chatResp.Choices[0].Message.ToolCalls[0].Function
	if !json.Valid([]byte(call.Arguments)) {
		return nil, llm.Malformed(status, "tool call arguments are not valid json", nil)
	}

	return &llm.ToolCallResult{
		Name:      call.Name,
		Arguments: json.RawMessage(call.Arguments),
		Model:     chatResp.Model,
	}, nil
}
