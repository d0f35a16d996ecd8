// Package bedrock adapts the AWS Bedrock Converse API to
// llmgateway.Provider, forcing structured output via a single synthetic
// tool the same way the anthropic adapter does, grounded on the
// teacher's features/model/bedrock adapter (split system/conversational
// messages, encode a ToolConfiguration, translate Converse responses).
// This package is a demonstration adapter: nothing in llmgateway or
// agentloop imports it.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/sandipan1/hica/llmgateway"
)

const structuredOutputToolName = "structured_output"

// RuntimeClient mirrors the subset of the AWS Bedrock runtime client
// required by the adapter, satisfied by *bedrockruntime.Client.
type RuntimeClient interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Client implements llmgateway.Provider on top of AWS Bedrock Converse.
type Client struct {
	runtime RuntimeClient
	modelID string
}

// New builds a Client from a Bedrock runtime client and model identifier.
func New(runtime RuntimeClient, modelID string) (*Client, error) {
	if runtime == nil {
		return nil, errors.New("bedrock: runtime client is required")
	}
	if modelID == "" {
		return nil, errors.New("bedrock: model identifier is required")
	}
	return &Client{runtime: runtime, modelID: modelID}, nil
}

// Complete implements llmgateway.Provider.
func (c *Client) Complete(ctx context.Context, req llmgateway.Request) (llmgateway.Response, error) {
	var schema map[string]any
	if len(req.Schema) > 0 {
		if err := json.Unmarshal(req.Schema, &schema); err != nil {
			return llmgateway.Response{}, fmt.Errorf("bedrock: decoding schema: %w", err)
		}
	}

	var system []brtypes.SystemContentBlock
	var messages []brtypes.Message
	for _, m := range req.Messages {
		switch m.Role {
		case llmgateway.RoleSystem:
			system = append(system, &brtypes.SystemContentBlockMemberText{Value: m.Content})
		case llmgateway.RoleUser:
			messages = append(messages, brtypes.Message{
				Role:    brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: m.Content}},
			})
		case llmgateway.RoleAssistant:
			messages = append(messages, brtypes.Message{
				Role:    brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: m.Content}},
			})
		}
	}
	if len(messages) == 0 {
		return llmgateway.Response{}, errors.New("bedrock: at least one user/assistant message is required")
	}

	toolConfig := &brtypes.ToolConfiguration{
		Tools: []brtypes.Tool{
			&brtypes.ToolMemberToolSpec{
				Value: brtypes.ToolSpecification{
					Name: aws.String(structuredOutputToolName),
					InputSchema: &brtypes.ToolInputSchemaMemberJson{
						Value: document.NewLazyDocument(schema),
					},
				},
			},
		},
		ToolChoice: &brtypes.ToolChoiceMemberTool{
			Value: brtypes.SpecificToolChoice{Name: aws.String(structuredOutputToolName)},
		},
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:    aws.String(c.modelID),
		Messages:   messages,
		System:     system,
		ToolConfig: toolConfig,
	}
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		input.InferenceConfig = &brtypes.InferenceConfiguration{Temperature: &t}
	}

	out, err := c.runtime.Converse(ctx, input)
	if err != nil {
		return llmgateway.Response{}, fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return llmgateway.Response{}, errors.New("bedrock: response did not carry a message")
	}
	for _, block := range msg.Value.Content {
		use, ok := block.(*brtypes.ContentBlockMemberToolUse)
		if !ok || aws.ToString(use.Value.Name) != structuredOutputToolName {
			continue
		}
		var decoded any
		if err := use.Value.Input.UnmarshalSmithyDocument(&decoded); err != nil {
			return llmgateway.Response{}, fmt.Errorf("bedrock: decoding tool use input: %w", err)
		}
		value, err := json.Marshal(decoded)
		if err != nil {
			return llmgateway.Response{}, fmt.Errorf("bedrock: encoding structured output: %w", err)
		}
		return llmgateway.Response{Value: value}, nil
	}
	return llmgateway.Response{}, errors.New("bedrock: response did not include a structured_output tool use")
}
