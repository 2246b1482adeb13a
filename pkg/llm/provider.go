package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Tool declares a function the model must answer through.
type Tool struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

type FunctionDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCallResult is the raw function-call payload returned by a provider.
// Arguments is guaranteed to be syntactically valid JSON.
type ToolCallResult struct {
	Name      string
	Arguments json.RawMessage
	Model     string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ToolCaller defines the contract for any backend that supports forced function calling.
type ToolCaller interface {
	// CallTool sends the conversation and forces the model to respond through tool.
	// Failures are always *GatewayError.
	CallTool(ctx context.Context, history []Message, tool Tool, options ...Option) (*ToolCallResult, error)
}
