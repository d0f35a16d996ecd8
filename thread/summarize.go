package thread

// DefaultSummarizationTailSize is the default number of trailing events
// kept verbatim after a summarization compaction.
const DefaultSummarizationTailSize = 5

// Summarize replaces Events with a single context_summary event carrying
// summary followed by the last tailSize events. This is the only
// operation that removes events from a thread; it is invoked by the
// Agent Loop, never by callers directly, and its effect is in-place so
// the next persisted snapshot reflects the compaction.
//
// tailSize <= 0 falls back to DefaultSummarizationTailSize.
func (t *Thread) Summarize(summary string, tailSize int) {
	if tailSize <= 0 {
		tailSize = DefaultSummarizationTailSize
	}
	summaryEvent := Event{Type: ContextSummary, Data: summary}

	tail := t.Events
	if len(tail) > tailSize {
		tail = tail[len(tail)-tailSize:]
	}
	compacted := make([]Event, 0, len(tail)+1)
	compacted = append(compacted, summaryEvent)
	compacted = append(compacted, tail...)
	t.Events = compacted
}

// NeedsSummarization reports whether the thread has exceeded maxEvents and
// should be compacted before the loop proceeds. maxEvents <= 0 means
// summarization is disabled: events are never compacted when a maximum
// was never configured.
func (t *Thread) NeedsSummarization(maxEvents int) bool {
	if maxEvents <= 0 {
		return false
	}
	return len(t.Events) > maxEvents
}
