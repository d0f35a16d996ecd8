package agentloop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/llmgateway"
	"github.com/sandipan1/hica/telemetry"
	"github.com/sandipan1/hica/thread"
	"github.com/sandipan1/hica/toolregistry"
)

// Loop is the Agent Control Loop: a SELECT/FILL/DISPATCH state machine
// bound to a fixed Tool Registry and LLM provider, grounded on the
// original's Agent.agent_loop generator and on workflow_loop.go's
// receiver-method loop shape, generalized away from its Temporal
// replay-safety machinery since a single-threaded generator is the
// scheduling model here.
type Loop struct {
	registry *toolregistry.Registry
	provider llmgateway.Provider
	cfg      Config
	logger   telemetry.Logger
}

// New constructs a Loop bound to registry and provider.
func New(registry *toolregistry.Registry, provider llmgateway.Provider, cfg Config, opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &Loop{registry: registry, provider: provider, cfg: cfg, logger: logger}
}

// Run drives th through the state machine until it reaches a terminal
// state (done or clarification) or ctx is cancelled, yielding a snapshot
// of th after every state transition on the returned channel. Both
// channels are closed when the run ends; at most one error is ever sent.
// Cancellation between yields is honored: whatever events were appended
// before cancellation remain on th.
func (l *Loop) Run(ctx context.Context, th *thread.Thread) (<-chan *thread.Thread, <-chan error) {
	snapshots := make(chan *thread.Thread)
	errs := make(chan error, 1)

	go func() {
		defer close(snapshots)
		defer close(errs)
		if err := l.run(ctx, th, snapshots); err != nil {
			errs <- err
		}
	}()

	return snapshots, errs
}

func (l *Loop) run(ctx context.Context, th *thread.Thread, snapshots chan<- *thread.Thread) error {
	if th.NeedsSummarization(l.cfg.MaxEventsBeforeSummarization) {
		if err := l.summarize(ctx, th); err != nil {
			return err
		}
	}
	if !l.yield(ctx, th, snapshots) {
		return ctx.Err()
	}

	for {
		sel, err := l.selectStep(ctx, th)
		if err != nil {
			return err
		}
		if !l.yield(ctx, th, snapshots) {
			return ctx.Err()
		}

		catalog := l.registry.Descriptors()

		switch sel.Intent {
		case "done":
			return l.finalResponse(ctx, th, snapshots)
		case "clarification":
			return ctx.Err()
		default:
			if _, ok := catalog[sel.Intent]; !ok {
				return hicaerrors.Newf(hicaerrors.InvalidSelection, "model selected unregistered tool %q", sel.Intent)
			}
		}

		args, err := l.fillStep(ctx, th, catalog[sel.Intent])
		if err != nil {
			return err
		}
		if !l.yield(ctx, th, snapshots) {
			return ctx.Err()
		}

		if err := l.dispatchStep(ctx, th, sel.Intent, args); err != nil {
			return err
		}
		if !l.yield(ctx, th, snapshots) {
			return ctx.Err()
		}

		if th.NeedsSummarization(l.cfg.MaxEventsBeforeSummarization) {
			if err := l.summarize(ctx, th); err != nil {
				return err
			}
		}
	}
}

// yield sends a snapshot of th on snapshots, respecting ctx cancellation.
// It returns false if ctx was cancelled instead of delivering the
// snapshot.
func (l *Loop) yield(ctx context.Context, th *thread.Thread, snapshots chan<- *thread.Thread) bool {
	select {
	case <-ctx.Done():
		return false
	case snapshots <- th.Clone():
		return true
	}
}

// selectStep is algorithm step 3: choose the next intent from the
// registered tool names plus done/clarification.
func (l *Loop) selectStep(ctx context.Context, th *thread.Thread) (selection, error) {
	catalog := l.registry.Descriptors()
	instruction := "Decide the next step. Avoid unnecessary tool calls and prefer a direct answer when you already have enough information. Choose strictly from the enumerated intents."

	raw, err := llmgateway.RunStructured(ctx, l.provider, l.cfg.SystemPrompt, catalog, th, "", instruction, selectionSchema(catalog), llmgateway.Options{Temperature: 0})
	if err != nil {
		return selection{}, err
	}

	var sel selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return selection{}, hicaerrors.Wrap(hicaerrors.SerializationError, "decoding tool selection", err)
	}

	th.AddEvent(thread.LLMResponse, map[string]any{"intent": sel.Intent, "reason": sel.Reason}, "tool_selection")
	return sel, nil
}

// fillStep is algorithm step 5: derive a per-tool schema and ask the
// model to supply only the required arguments.
func (l *Loop) fillStep(ctx context.Context, th *thread.Thread, desc toolregistry.Descriptor) (map[string]any, error) {
	schema, err := fillSchema(desc)
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "building tool parameter schema", err)
	}

	instruction := fmt.Sprintf("Supply arguments for tool %q (%s). Provide only parameters required by its schema.", desc.Name, desc.Description)

	raw, err := llmgateway.RunStructured(ctx, l.provider, l.cfg.SystemPrompt, l.registry.Descriptors(), th, "", instruction, schema, llmgateway.Options{Temperature: 0})
	if err != nil {
		return nil, err
	}

	var f filled
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "decoding tool arguments", err)
	}

	th.AddEvent(thread.LLMResponse, map[string]any{"intent": desc.Name, "arguments": f.Arguments}, "llm_parameters")
	return f.Arguments, nil
}

// dispatchStep is algorithm step 6: record the call, invoke the
// registry, and record the normalized response.
func (l *Loop) dispatchStep(ctx context.Context, th *thread.Thread, intent string, arguments map[string]any) error {
	th.AddEvent(thread.ToolCall, map[string]any{"intent": intent, "arguments": arguments}, "")

	result, err := l.registry.Execute(ctx, intent, arguments)
	if err != nil {
		th.AddEvent(thread.ToolResponse, map[string]any{"error": err.Error(), "source": "ToolRegistry"}, "")
		return err
	}

	response := map[string]any{
		"llm_content":     result.LLMContent,
		"display_content": result.DisplayContent,
		"raw_result":      toolregistry.Normalize(result.RawResult),
	}
	th.AddEvent(thread.ToolResponse, map[string]any{"response": response, "source": "ToolRegistry"}, "")
	return nil
}

// finalResponse is algorithm step 7: summarize accumulated results for
// the user and terminate.
func (l *Loop) finalResponse(ctx context.Context, th *thread.Thread, snapshots chan<- *thread.Thread) error {
	rawResults := collectRawResults(th)
	instruction := "Summarize the results for the user in a concise final message."

	raw, err := llmgateway.RunStructured(ctx, l.provider, l.cfg.SystemPrompt, l.registry.Descriptors(), th, "", instruction, finalResponseSchema(), llmgateway.Options{Temperature: 0})
	if err != nil {
		return err
	}

	var fm finalMessage
	if err := json.Unmarshal(raw, &fm); err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "decoding final response", err)
	}

	data := map[string]any{
		"intent":      "final_response",
		"message":     fm.Message,
		"raw_results": rawResults,
	}
	if fm.Summary != "" {
		data["summary"] = fm.Summary
	}
	th.AddEvent(thread.LLMResponse, data, "final_response")

	l.yield(ctx, th, snapshots)
	return nil
}

// collectRawResults gathers all user_input and tool_response events into
// a mapping keyed by event type, per algorithm step 7.
func collectRawResults(th *thread.Thread) map[string][]any {
	out := map[string][]any{}
	for _, event := range th.Events {
		switch event.Type {
		case thread.UserInput, thread.ToolResponse:
			key := string(event.Type)
			out[key] = append(out[key], event.Data)
		}
	}
	return out
}

// summarize invokes the Gateway for a compact summary and compacts th in
// place, per the bounded-context algorithm.
func (l *Loop) summarize(ctx context.Context, th *thread.Thread) error {
	instruction := "Summarize prior facts, decisions, and outcomes in this conversation concisely."

	raw, err := llmgateway.RunStructured(ctx, l.provider, l.cfg.SystemPrompt, l.registry.Descriptors(), th, "", instruction, summarizationSchema(), llmgateway.Options{Temperature: 0})
	if err != nil {
		return err
	}

	var s summaryOnly
	if err := json.Unmarshal(raw, &s); err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "decoding summarization result", err)
	}

	th.Summarize(s.Summary, l.cfg.SummarizationTailSize)
	l.logger.Info(ctx, "compacted thread context", "thread_id", th.ThreadID)
	return nil
}
