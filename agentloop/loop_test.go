package agentloop

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandipan1/hica/llmgateway"
	"github.com/sandipan1/hica/remotetool"
	"github.com/sandipan1/hica/thread"
	"github.com/sandipan1/hica/toolregistry"
)

// scriptedProvider returns successive responses from a fixed script,
// regardless of the request it is asked to complete, so tests can drive
// the loop through an exact intended path.
type scriptedProvider struct {
	responses []json.RawMessage
	calls     int
}

func (p *scriptedProvider) Complete(ctx context.Context, req llmgateway.Request) (llmgateway.Response, error) {
	if p.calls >= len(p.responses) {
		return llmgateway.Response{}, assertUnscriptedCall{}
	}
	resp := llmgateway.Response{Value: p.responses[p.calls]}
	p.calls++
	return resp, nil
}

type assertUnscriptedCall struct{}

func (assertUnscriptedCall) Error() string { return "scriptedProvider: no more scripted responses" }

func drain(t *testing.T, snapshots <-chan *thread.Thread, errs <-chan error) (*thread.Thread, error) {
	var last *thread.Thread
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				select {
				case err := <-errs:
					return last, err
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for error channel close")
				}
			}
			last = snap
		case <-time.After(5 * time.Second):
			t.Fatal("timed out draining snapshots")
		}
	}
}

func TestSingleStepToolDispatchThenDone(t *testing.T) {
	reg := toolregistry.New(toolregistry.Options{})
	require.NoError(t, reg.RegisterFunc("add", "adds two integers", func(a, b int) int { return a + b }, "a", "b"))

	provider := &scriptedProvider{responses: []json.RawMessage{
		json.RawMessage(`{"intent":"add","reason":"need to add"}`),
		json.RawMessage(`{"arguments":{"a":2,"b":3}}`),
		json.RawMessage(`{"intent":"done","reason":"have the answer"}`),
		json.RawMessage(`{"message":"The sum is 5."}`),
	}}

	loop := New(reg, provider, Config{SystemPrompt: "you help with arithmetic"}, Options{})

	th := thread.New()
	th.AddEvent(thread.UserInput, "what is 2+3?", "")

	snapshots, errs := loop.Run(context.Background(), th)
	final, err := drain(t, snapshots, errs)
	require.NoError(t, err)
	require.NotNil(t, final)

	last := final.Events[len(final.Events)-1]
	assert.Equal(t, thread.LLMResponse, last.Type)
	data := last.Data.(map[string]any)
	assert.Equal(t, "final_response", data["intent"])
	assert.Equal(t, "The sum is 5.", data["message"])
}

func TestRemoteToolDispatchRecordsNormalizedResponse(t *testing.T) {
	fake := &remotetool.FakeCaller{
		Tools: []remotetool.ToolDescriptor{
			{Name: "echo", Description: "echoes text", InputSchema: json.RawMessage(`{"properties":{"text":{"type":"string"}},"required":["text"]}`)},
		},
		Results: map[string]remotetool.CallResult{
			"echo": {
				StructuredContent: json.RawMessage(`{"echoed":"hello"}`),
				TextContent:       []string{"hello"},
			},
		},
	}
	conn := remotetool.New(fake)
	require.NoError(t, conn.Connect(context.Background()))

	reg := toolregistry.New(toolregistry.Options{})
	require.NoError(t, reg.LoadRemoteTools(context.Background(), conn))

	provider := &scriptedProvider{responses: []json.RawMessage{
		json.RawMessage(`{"intent":"echo","reason":"need to echo"}`),
		json.RawMessage(`{"arguments":{"text":"hello"}}`),
		json.RawMessage(`{"intent":"done","reason":"have the echo"}`),
		json.RawMessage(`{"message":"Echoed hello."}`),
	}}

	loop := New(reg, provider, Config{SystemPrompt: "you help echo text"}, Options{})

	th := thread.New()
	th.AddEvent(thread.UserInput, "echo hello", "")

	snapshots, errs := loop.Run(context.Background(), th)
	final, err := drain(t, snapshots, errs)
	require.NoError(t, err)
	require.NotNil(t, final)

	var toolResponse *thread.Event
	for i := range final.Events {
		if final.Events[i].Type == thread.ToolResponse {
			toolResponse = &final.Events[i]
			break
		}
	}
	require.NotNil(t, toolResponse, "expected a tool_response event")

	data := toolResponse.Data.(map[string]any)
	response := data["response"].(map[string]any)
	assert.Equal(t, `{"echoed":"hello"}`, response["llm_content"])
	assert.Equal(t, "hello", response["display_content"])
}

func TestClarificationPausesAndDoesNotTerminateWithError(t *testing.T) {
	reg := toolregistry.New(toolregistry.Options{})
	provider := &scriptedProvider{responses: []json.RawMessage{
		json.RawMessage(`{"intent":"clarification","reason":"need more info"}`),
	}}

	loop := New(reg, provider, Config{SystemPrompt: "you help with arithmetic"}, Options{})

	th := thread.New()
	th.AddEvent(thread.UserInput, "do the thing", "")

	snapshots, errs := loop.Run(context.Background(), th)
	final, err := drain(t, snapshots, errs)
	require.NoError(t, err)

	assert.True(t, final.AwaitingHumanResponse())
}

func TestUnknownToolSelectionFailsWithInvalidSelection(t *testing.T) {
	reg := toolregistry.New(toolregistry.Options{})
	provider := &scriptedProvider{responses: []json.RawMessage{
		json.RawMessage(`{"intent":"nonexistent_tool","reason":"trying anyway"}`),
	}}

	loop := New(reg, provider, Config{SystemPrompt: "sys"}, Options{})

	th := thread.New()
	th.AddEvent(thread.UserInput, "do something", "")

	snapshots, errs := loop.Run(context.Background(), th)
	_, err := drain(t, snapshots, errs)
	require.Error(t, err)
}

func TestSummarizationTriggersBeforeContinuing(t *testing.T) {
	reg := toolregistry.New(toolregistry.Options{})
	provider := &scriptedProvider{responses: []json.RawMessage{
		json.RawMessage(`{"summary":"user asked about weather twice"}`),
		json.RawMessage(`{"intent":"done","reason":"answered already"}`),
		json.RawMessage(`{"message":"All set."}`),
	}}

	loop := New(reg, provider, Config{SystemPrompt: "sys", MaxEventsBeforeSummarization: 2}, Options{})

	th := thread.New()
	th.AddEvent(thread.UserInput, "hi", "")
	th.AddEvent(thread.UserInput, "weather?", "")
	th.AddEvent(thread.UserInput, "weather again?", "")

	snapshots, errs := loop.Run(context.Background(), th)
	final, err := drain(t, snapshots, errs)
	require.NoError(t, err)

	require.NotEmpty(t, final.Events)
	assert.Equal(t, thread.ContextSummary, final.Events[0].Type)
}
