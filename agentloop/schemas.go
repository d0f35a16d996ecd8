package agentloop

import (
	"encoding/json"

	"github.com/sandipan1/hica/toolregistry"
)

type selection struct {
	Intent string `json:"intent"`
	Reason string `json:"reason"`
}

type filled struct {
	Arguments map[string]any `json:"arguments"`
}

type finalMessage struct {
	Message string `json:"message"`
	Summary string `json:"summary,omitempty"`
}

type summaryOnly struct {
	Summary string `json:"summary"`
}

// selectionSchema restricts intent to the registered tool names plus the
// literals "done" and "clarification", per algorithm step 3.
func selectionSchema(catalog map[string]toolregistry.Descriptor) json.RawMessage {
	intents := make([]any, 0, len(catalog)+2)
	for name := range catalog {
		intents = append(intents, name)
	}
	intents = append(intents, "done", "clarification")

	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{"type": "string", "enum": intents},
			"reason": map[string]any{"type": "string"},
		},
		"required": []string{"intent", "reason"},
	}
	raw, _ := json.Marshal(doc)
	return raw
}

// fillSchema wraps a tool's parameter schema so the model supplies only
// the arguments object, per algorithm step 5.
func fillSchema(desc toolregistry.Descriptor) (json.RawMessage, error) {
	paramsRaw, err := desc.RawSchema()
	if err != nil {
		return nil, err
	}
	var params any
	if err := json.Unmarshal(paramsRaw, &params); err != nil {
		return nil, err
	}
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"arguments": params,
		},
		"required": []string{"arguments"},
	}
	raw, _ := json.Marshal(doc)
	return raw, nil
}

// finalResponseSchema is the {message, summary?} contract for step 7.
func finalResponseSchema() json.RawMessage {
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
			"summary": map[string]any{"type": "string"},
		},
		"required": []string{"message"},
	}
	raw, _ := json.Marshal(doc)
	return raw
}

// summarizationSchema is the {summary: string} contract for bounded
// context compaction.
func summarizationSchema() json.RawMessage {
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
		},
		"required": []string{"summary"},
	}
	raw, _ := json.Marshal(doc)
	return raw
}
