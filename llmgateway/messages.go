package llmgateway

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandipan1/hica/thread"
	"github.com/sandipan1/hica/toolregistry"
)

// BuildMessages composes the message sequence for a structured-output
// call, grounded on the original's Agent._build_messages: a system
// message combining systemPrompt with a formatted tool catalog and the
// optional extra context block, a projection of prior thread events, and
// a final user message carrying instruction.
func BuildMessages(systemPrompt string, catalog map[string]toolregistry.Descriptor, th *thread.Thread, extraContext, instruction string) []Message {
	system := systemPrompt
	if toolsBlock := formatToolCatalog(catalog); toolsBlock != "" {
		system += "\nAvailable tools:\n" + toolsBlock
	}
	if extraContext != "" {
		system += "\n" + extraContext
	}

	messages := []Message{{Role: RoleSystem, Content: system}}
	if th != nil {
		for _, event := range th.Events {
			if msg, ok := projectEvent(event); ok {
				messages = append(messages, msg)
			}
		}
	}
	messages = append(messages, Message{Role: RoleUser, Content: instruction})
	return messages
}

// formatToolCatalog renders each tool as "<tool> name : description</tool>",
// joined by newlines. Iteration order is by name for deterministic
// prompts across calls with the same catalog.
func formatToolCatalog(catalog map[string]toolregistry.Descriptor) string {
	if len(catalog) == 0 {
		return ""
	}
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		desc := catalog[name]
		description := desc.Description
		if description == "" {
			description = "No description"
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "<tool> %s : %s</tool>", desc.Name, description)
	}
	return b.String()
}

// projectEvent maps one thread event onto a chat message, grounded on
// _build_messages's per-type branches. context_summary events are
// injected as a user message; llm_response events whose data carries a
// recognizable selection intent render as "Selected tool X with
// parameters Y" or the bare intent word for done/clarification; other
// llm_response events render their data via string coercion.
func projectEvent(event thread.Event) (Message, bool) {
	switch event.Type {
	case thread.UserInput:
		return Message{Role: RoleUser, Content: fmt.Sprintf("%v", event.Data)}, true
	case thread.ContextSummary:
		return Message{Role: RoleUser, Content: fmt.Sprintf("%v", event.Data)}, true
	case thread.ToolResponse:
		return Message{Role: RoleUser, Content: fmt.Sprintf("Tool execution result: %v", event.Data)}, true
	case thread.LLMResponse:
		return projectLLMResponse(event.Data), true
	default:
		return Message{}, false
	}
}

func projectLLMResponse(data any) Message {
	m, ok := data.(map[string]any)
	if !ok {
		return Message{Role: RoleAssistant, Content: fmt.Sprintf("%v", data)}
	}
	intent, hasIntent := m["intent"].(string)
	if !hasIntent {
		return Message{Role: RoleAssistant, Content: fmt.Sprintf("%v", data)}
	}
	if intent == "done" || intent == "clarification" {
		return Message{Role: RoleAssistant, Content: intent}
	}
	args := m["arguments"]
	return Message{Role: RoleAssistant, Content: fmt.Sprintf("Selected tool '%s' with parameters: %v", intent, args)}
}
