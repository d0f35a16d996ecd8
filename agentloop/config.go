// Package agentloop implements the Agent Control Loop: the
// SELECT/FILL/DISPATCH state machine that drives a Thread to a final
// response or a clarification pause, delegating tool resolution to the
// Tool Registry and model calls to the Structured LLM Gateway.
package agentloop

import "github.com/sandipan1/hica/telemetry"

// Config holds the per-loop settings fixed at construction, mirroring
// the original Agent.__init__'s model/system_prompt/summarization knobs.
type Config struct {
	// Model is an opaque provider identifier, passed through to
	// whichever llmgateway.Provider the loop was constructed with; the
	// loop itself never branches on it.
	Model string

	// SystemPrompt is the base instruction prefixed to every Gateway
	// call's composed system message.
	SystemPrompt string

	// MaxEventsBeforeSummarization triggers summarization when the
	// thread's event count exceeds it on loop entry. Zero or negative
	// disables summarization entirely.
	MaxEventsBeforeSummarization int

	// SummarizationTailSize overrides the default tail length kept
	// after a summarization compaction. Zero uses
	// thread.DefaultSummarizationTailSize.
	SummarizationTailSize int
}

// Options configures ambient collaborators for a Loop.
type Options struct {
	Logger telemetry.Logger
}
