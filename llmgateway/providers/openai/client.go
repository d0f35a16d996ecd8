// Package openai adapts the OpenAI Chat Completions API to
// llmgateway.Provider using its native JSON-schema response format,
// against github.com/openai/openai-go. This package is a demonstration
// adapter: nothing in llmgateway or agentloop imports it.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sandipan1/hica/llmgateway"
)

// ChatClient captures the subset of the openai-go client used by the
// adapter, satisfied by the Chat.Completions service.
type ChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client implements llmgateway.Provider via OpenAI Chat Completions
// structured outputs.
type Client struct {
	chat  ChatClient
	model string
}

// New builds a Client from a Chat Completions client and model identifier.
func New(chat ChatClient, model string) (*Client, error) {
	if chat == nil {
		return nil, errors.New("openai: chat client is required")
	}
	if model == "" {
		return nil, errors.New("openai: model identifier is required")
	}
	return &Client{chat: chat, model: model}, nil
}

// NewFromAPIKey constructs a Client using the default openai-go HTTP client.
func NewFromAPIKey(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return New(&c.Chat.Completions, model)
}

// Complete implements llmgateway.Provider.
func (c *Client) Complete(ctx context.Context, req llmgateway.Request) (llmgateway.Response, error) {
	if len(req.Messages) == 0 {
		return llmgateway.Response{}, errors.New("openai: messages are required")
	}

	var schema map[string]any
	if len(req.Schema) > 0 {
		if err := json.Unmarshal(req.Schema, &schema); err != nil {
			return llmgateway.Response{}, fmt.Errorf("openai: decoding schema: %w", err)
		}
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case llmgateway.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case llmgateway.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case llmgateway.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_output",
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		return llmgateway.Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llmgateway.Response{}, errors.New("openai: response had no choices")
	}
	return llmgateway.Response{Value: json.RawMessage(resp.Choices[0].Message.Content)}, nil
}
