package toolregistry

// Result is the normalized output of any tool invocation, local or
// remote: a triple of LLM-facing content, display content, and the
// original value prior to normalization.
type Result struct {
	// LLMContent is compact text or a JSON string suitable for inclusion
	// in the next prompt.
	LLMContent string
	// DisplayContent is the human-facing rendering.
	DisplayContent string
	// RawResult is the original value, opaque to the loop.
	RawResult any
}
