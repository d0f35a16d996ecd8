// Package llmgateway implements the Structured LLM Gateway: message
// composition from a thread plus tool catalog, and a single entry point
// for structured-output provider calls. The concrete provider is an
// out-of-scope external collaborator, referenced only by the Provider
// interface; providers/ ships demonstration adapters against real SDKs,
// but nothing in this package or in agentloop depends on them directly.
package llmgateway

import (
	"context"
	"encoding/json"
)

// Role mirrors the three chat roles used when projecting a thread into
// a provider request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the composed prompt.
type Message struct {
	Role    Role
	Content string
}

// Request is a structured-output provider call: a message sequence
// constrained to return a value satisfying schema.
type Request struct {
	Messages    []Message
	Schema      json.RawMessage
	Temperature float64
}

// Response is the provider's validated structured output, encoded as raw
// JSON satisfying the request's schema.
type Response struct {
	Value json.RawMessage
}

// Provider is the out-of-scope LLM provider contract: given messages and
// a schema, return a value satisfying that schema, or fail with
// LLMError. Non-streaming only; token-level streaming is out of scope.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
