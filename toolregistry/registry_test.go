package toolregistry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/remotetool"
	"github.com/sandipan1/hica/telemetry"
)

func add(a, b int) int { return a + b }

func TestRegisterFuncAndDispatch(t *testing.T) {
	reg := New(Options{})
	require.NoError(t, reg.RegisterFunc("add", "adds two integers", add, "a", "b"))

	result, err := reg.Execute(context.Background(), "add", map[string]any{"a": 3, "b": 4})
	require.NoError(t, err)
	assert.Equal(t, "7", result.LLMContent)
	assert.Equal(t, "7", result.DisplayContent)
	assert.Equal(t, 7, result.RawResult)
}

func TestUnknownToolFails(t *testing.T) {
	reg := New(Options{})
	_, err := reg.Execute(context.Background(), "nope", nil)
	require.Error(t, err)
	kind, ok := hicaerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, hicaerrors.UnknownTool, kind)
}

func TestParameterValidationFailsOnMissingRequired(t *testing.T) {
	reg := New(Options{})
	require.NoError(t, reg.RegisterFunc("add", "adds two integers", add, "a", "b"))

	_, err := reg.Execute(context.Background(), "add", map[string]any{"a": 3})
	require.Error(t, err)
	kind, ok := hicaerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, hicaerrors.ParameterValidation, kind)
}

func TestLastWriteWins(t *testing.T) {
	reg := New(Options{})
	require.NoError(t, reg.RegisterFunc("greet", "first", func(name string) string { return "v1:" + name }, "name"))
	require.NoError(t, reg.RegisterFunc("greet", "second", func(name string) string { return "v2:" + name }, "name"))

	result, err := reg.Execute(context.Background(), "greet", map[string]any{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, "v2:ada", result.RawResult)

	desc, ok := reg.Lookup("greet")
	require.True(t, ok)
	assert.Equal(t, "second", desc.Description)
}

func TestLoadRemoteToolsAndDispatch(t *testing.T) {
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

	reg := New(Options{})
	require.NoError(t, reg.LoadRemoteTools(context.Background(), conn))

	result, err := reg.Execute(context.Background(), "echo", map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"echoed":"hello"}`, result.LLMContent)
	assert.Equal(t, "hello", result.DisplayContent)
}

type warnRecorder struct {
	telemetry.NoopLogger
	warnings []string
}

func (w *warnRecorder) Warn(ctx context.Context, msg string, keyvals ...any) {
	w.warnings = append(w.warnings, msg)
}

func TestRemoveWarnsWhenAbsent(t *testing.T) {
	rec := &warnRecorder{}
	reg := New(Options{Logger: rec})
	reg.Remove("does-not-exist") // should not panic
	_, ok := reg.Lookup("does-not-exist")
	assert.False(t, ok)
	assert.Len(t, rec.warnings, 1)
}
