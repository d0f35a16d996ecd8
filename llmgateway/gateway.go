package llmgateway

import (
	"context"
	"encoding/json"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/thread"
	"github.com/sandipan1/hica/toolregistry"
)

// Options configures a single RunStructured call.
type Options struct {
	// Temperature controls sampling. Selection/planning calls use 0 for
	// determinism; free-form final-response generation may set it higher.
	Temperature float64

	// RecordEvent, when true, appends the provider's structured value to
	// th as an llm_response event before returning, mirroring the
	// original's add_event(thread, "llm_response", ...) call immediately
	// after each model invocation.
	RecordEvent bool

	// Step is the step label to stamp on the recorded event, when
	// RecordEvent is set.
	Step string
}

// RunStructured composes the prompt for th and instruction against
// systemPrompt and catalog, invokes provider for a value satisfying
// schema, and optionally records the result onto th. It is the sole
// point where agentloop crosses into the out-of-scope LLM boundary,
// grounded on the original's Agent._call_llm: a single structured-output
// round trip with no retries and no streaming.
func RunStructured(ctx context.Context, provider Provider, systemPrompt string, catalog map[string]toolregistry.Descriptor, th *thread.Thread, extraContext, instruction string, schema json.RawMessage, opts Options) (json.RawMessage, error) {
	if provider == nil {
		return nil, hicaerrors.New(hicaerrors.LLMError, "no provider configured")
	}

	messages := BuildMessages(systemPrompt, catalog, th, extraContext, instruction)

	resp, err := provider.Complete(ctx, Request{
		Messages:    messages,
		Schema:      schema,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.LLMError, "provider call failed", err)
	}

	if opts.RecordEvent && th != nil {
		var data any
		if err := json.Unmarshal(resp.Value, &data); err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "decoding provider response", err)
		}
		th.AddEvent(thread.LLMResponse, data, opts.Step)
	}

	return resp.Value, nil
}
