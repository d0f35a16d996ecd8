package llmgateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/thread"
	"github.com/sandipan1/hica/toolregistry"
)

type fakeProvider struct {
	response Response
	err      error
	lastReq  Request
}

func (f *fakeProvider) Complete(ctx context.Context, req Request) (Response, error) {
	f.lastReq = req
	return f.response, f.err
}

func TestBuildMessagesProjectsEventsInOrder(t *testing.T) {
	th := thread.New()
	th.AddEvent(thread.UserInput, "what's the weather", "")
	th.AddEvent(thread.LLMResponse, map[string]any{"intent": "get_weather", "arguments": map[string]any{"city": "nyc"}}, "")
	th.AddEvent(thread.ToolResponse, "sunny", "")
	th.AddEvent(thread.LLMResponse, map[string]any{"intent": "done"}, "")

	catalog := map[string]toolregistry.Descriptor{
		"get_weather": {Name: "get_weather", Description: "fetches weather"},
	}

	messages := BuildMessages("you are an agent", catalog, th, "", "continue")
	require.Len(t, messages, 6)

	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "<tool> get_weather : fetches weather</tool>")

	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "what's the weather", messages[1].Content)

	assert.Equal(t, RoleAssistant, messages[2].Role)
	assert.Contains(t, messages[2].Content, "Selected tool 'get_weather'")

	assert.Equal(t, RoleUser, messages[3].Role)
	assert.Equal(t, "Tool execution result: sunny", messages[3].Content)

	assert.Equal(t, RoleAssistant, messages[4].Role)
	assert.Equal(t, "done", messages[4].Content)

	assert.Equal(t, RoleUser, messages[5].Role)
	assert.Equal(t, "continue", messages[5].Content)
}

func TestRunStructuredRecordsEventOnSuccess(t *testing.T) {
	th := thread.New()
	provider := &fakeProvider{response: Response{Value: json.RawMessage(`{"intent":"done"}`)}}

	value, err := RunStructured(context.Background(), provider, "sys", nil, th, "", "go", json.RawMessage(`{}`), Options{RecordEvent: true, Step: "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"intent":"done"}`, string(value))
	require.Len(t, th.Events, 1)
	assert.Equal(t, thread.LLMResponse, th.Events[0].Type)
}

func TestRunStructuredWrapsProviderErrorAsLLMError(t *testing.T) {
	provider := &fakeProvider{err: assertError{}}
	_, err := RunStructured(context.Background(), provider, "sys", nil, nil, "", "go", json.RawMessage(`{}`), Options{})
	require.Error(t, err)
	kind, ok := hicaerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, hicaerrors.LLMError, kind)
}

func TestRunStructuredRequiresProvider(t *testing.T) {
	_, err := RunStructured(context.Background(), nil, "sys", nil, nil, "", "go", json.RawMessage(`{}`), Options{})
	require.Error(t, err)
	kind, ok := hicaerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, hicaerrors.LLMError, kind)
}

type assertError struct{}

func (assertError) Error() string { return "provider unavailable" }
