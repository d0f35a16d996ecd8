package thread

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitingHumanResponse(t *testing.T) {
	th := New()
	assert.False(t, th.AwaitingHumanResponse())

	th.AddEvent(UserInput, "add 3 and", "")
	assert.False(t, th.AwaitingHumanResponse())

	th.AddEvent(LLMResponse, map[string]any{"intent": "clarification"}, "tool_selection")
	assert.True(t, th.AwaitingHumanResponse())

	th.AddEvent(UserInput, "and 4", "")
	assert.False(t, th.AwaitingHumanResponse())
}

func TestRoundTrip(t *testing.T) {
	th := New()
	th.AddEvent(UserInput, "echo hello", "")
	th.AddEvent(ToolCall, map[string]any{"intent": "echo", "arguments": map[string]any{"text": "hello"}}, "")
	th.Metadata["user_metadata"] = map[string]any{"tenant": "acme"}

	serialized, err := th.ToSerialized()
	require.NoError(t, err)

	restored, err := FromSerialized(serialized)
	require.NoError(t, err)

	assert.Equal(t, th.ThreadID, restored.ThreadID)
	assert.Len(t, restored.Events, len(th.Events))
	assert.Equal(t, th.Metadata["user_metadata"], restored.Metadata["user_metadata"])
}

func TestSummarizeReplacesOlderEvents(t *testing.T) {
	th := New()
	for i := 0; i < 10; i++ {
		th.AddEvent(UserInput, i, "")
	}
	th.Summarize("ten inputs recorded", 5)

	require.Len(t, th.Events, 6)
	assert.Equal(t, ContextSummary, th.Events[0].Type)
	assert.Equal(t, "ten inputs recorded", th.Events[0].Data)
	assert.Equal(t, 5, th.Events[1].Data)
	assert.Equal(t, 9, th.Events[5].Data)
}

func TestNeedsSummarizationDisabledWhenUnset(t *testing.T) {
	th := New()
	for i := 0; i < 50; i++ {
		th.AddEvent(UserInput, i, "")
	}
	assert.False(t, th.NeedsSummarization(0))
}

// TestAppendOnlyProperty checks the append-only invariant across arbitrary
// sequences of AddEvent calls: the event log at any later point has the
// earlier log as a prefix.
func TestAppendOnlyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("events are a growing prefix", prop.ForAll(
		func(inputs []string) bool {
			th := New()
			var snapshots [][]Event
			for _, in := range inputs {
				th.AddEvent(UserInput, in, "")
				snapshot := make([]Event, len(th.Events))
				copy(snapshot, th.Events)
				snapshots = append(snapshots, snapshot)
			}
			for i := 1; i < len(snapshots); i++ {
				prev, cur := snapshots[i-1], snapshots[i]
				if len(cur) < len(prev) {
					return false
				}
				for j := range prev {
					if prev[j].Data != cur[j].Data {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
