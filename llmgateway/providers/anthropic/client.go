// Package anthropic adapts the Anthropic Claude Messages API to
// llmgateway.Provider, forcing structured output via a single synthetic
// tool whose input schema is the caller's requested schema. This package
// is a demonstration adapter: nothing in llmgateway or agentloop imports
// it.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sandipan1/hica/llmgateway"
)

const structuredOutputToolName = "structured_output"

// MessagesClient captures the subset of the Anthropic SDK used by the
// adapter, satisfied by *sdk.MessageService.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client implements llmgateway.Provider on top of Anthropic Claude
// Messages.
type Client struct {
	msg       MessagesClient
	model     string
	maxTokens int64
}

// New builds a Client from an Anthropic Messages client, a model
// identifier, and a completion token cap.
func New(msg MessagesClient, model string, maxTokens int64) (*Client, error) {
	if msg == nil {
		return nil, errors.New("anthropic: messages client is required")
	}
	if model == "" {
		return nil, errors.New("anthropic: model identifier is required")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{msg: msg, model: model, maxTokens: maxTokens}, nil
}

// NewFromAPIKey constructs a Client using the default Anthropic HTTP
// client, reading ANTHROPIC_API_KEY conventions from apiKey directly.
func NewFromAPIKey(apiKey, model string, maxTokens int64) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&ac.Messages, model, maxTokens)
}

// Complete implements llmgateway.Provider.
func (c *Client) Complete(ctx context.Context, req llmgateway.Request) (llmgateway.Response, error) {
	var schema map[string]any
	if len(req.Schema) > 0 {
		if err := json.Unmarshal(req.Schema, &schema); err != nil {
			return llmgateway.Response{}, fmt.Errorf("anthropic: decoding schema: %w", err)
		}
	}

	var system []sdk.TextBlockParam
	var messages []sdk.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case llmgateway.RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: m.Content})
		case llmgateway.RoleUser:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		case llmgateway.RoleAssistant:
			messages = append(messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	if len(messages) == 0 {
		return llmgateway.Response{}, errors.New("anthropic: at least one user/assistant message is required")
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  messages,
		Tools: []sdk.ToolUnionParam{
			sdk.ToolUnionParamOfTool(sdk.ToolInputSchemaParam{ExtraFields: schema}, structuredOutputToolName),
		},
		ToolChoice: sdk.ToolChoiceParamOfTool(structuredOutputToolName),
	}
	if len(system) > 0 {
		params.System = system
	}
	if req.Temperature > 0 {
		params.Temperature = sdk.Float(req.Temperature)
	}

	msg, err := c.msg.New(ctx, params)
	if err != nil {
		return llmgateway.Response{}, fmt.Errorf("anthropic messages.new: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type != "tool_use" || block.Name != structuredOutputToolName {
			continue
		}
		value, err := json.Marshal(block.Input)
		if err != nil {
			return llmgateway.Response{}, fmt.Errorf("anthropic: encoding tool_use input: %w", err)
		}
		return llmgateway.Response{Value: value}, nil
	}
	return llmgateway.Response{}, errors.New("anthropic: response did not include a structured_output tool call")
}
