package remotetool

import (
	"context"
	"encoding/json"
)

// FakeCaller is an in-process Caller double for exercising Connection's
// state machine and the Tool Registry's remote dispatch path without a
// live remote tool-protocol server. It is not a production transport.
type FakeCaller struct {
	Tools   []ToolDescriptor
	Results map[string]CallResult
	Calls   []string
}

// ListTools implements Caller.
func (f *FakeCaller) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	return f.Tools, nil
}

// CallTool implements Caller, recording each call by name for assertions.
func (f *FakeCaller) CallTool(ctx context.Context, name string, arguments json.RawMessage) (CallResult, error) {
	f.Calls = append(f.Calls, name)
	if f.Results == nil {
		return CallResult{}, nil
	}
	return f.Results[name], nil
}
