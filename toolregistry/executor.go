package toolregistry

import (
	"context"
	"fmt"
	"reflect"
)

// LocalTool is the execute(**kwargs) -> ToolResult contract for a local
// tool, grounded on the original's BaseTool. Implementers that need rich
// results (structured content, custom display text) implement this
// directly; simple functions are adapted into one via WrapFunc.
type LocalTool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, arguments map[string]any) (Result, error)
}

// funcTool adapts a bare callable into a LocalTool, grounded on the
// original's _create_wrapper_tool: the raw return value is string-coerced
// into both LLMContent and DisplayContent, with RawResult carrying the
// original value rather than a pass-through of a pre-built Result.
type funcTool struct {
	name        string
	description string
	fn          reflect.Value
	paramNames  []string
}

// WrapFunc adapts fn into a LocalTool named name with the given
// description and parameter names (see DeriveSchemaFromFunc for why
// names must be supplied explicitly). fn's parameters are positional and
// must match paramNames in order; fn may optionally return (T, error) or
// just T.
func WrapFunc(name, description string, fn any, paramNames ...string) (LocalTool, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("toolregistry: %T is not a function", fn)
	}
	if v.Type().NumIn() != len(paramNames) {
		return nil, fmt.Errorf("toolregistry: function %s has %d parameters, got %d names", name, v.Type().NumIn(), len(paramNames))
	}
	return &funcTool{name: name, description: description, fn: v, paramNames: paramNames}, nil
}

func (f *funcTool) Name() string        { return f.name }
func (f *funcTool) Description() string { return f.description }

func (f *funcTool) Execute(ctx context.Context, arguments map[string]any) (Result, error) {
	t := f.fn.Type()
	args := make([]reflect.Value, t.NumIn())
	for i, name := range f.paramNames {
		raw, ok := arguments[name]
		paramType := t.In(i)
		if !ok {
			args[i] = reflect.Zero(paramType)
			continue
		}
		converted, err := convertArg(raw, paramType)
		if err != nil {
			return Result{}, fmt.Errorf("toolregistry: parameter %q: %w", name, err)
		}
		args[i] = converted
	}

	out := f.fn.Call(args)
	rawResult, err := splitCallResult(out)
	if err != nil {
		return Result{}, err
	}

	str := fmt.Sprintf("%v", rawResult)
	return Result{LLMContent: str, DisplayContent: str, RawResult: rawResult}, nil
}

func convertArg(raw any, want reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(raw)
	if !v.IsValid() {
		return reflect.Zero(want), nil
	}
	if v.Type().ConvertibleTo(want) {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", raw, want)
}

// splitCallResult extracts the single return value from a (T) or
// (T, error) function return, matching the original's
// asyncio.iscoroutinefunction-agnostic treatment of a plain return.
func splitCallResult(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if errVal, ok := out[0].Interface().(error); ok {
			return nil, errVal
		}
		return out[0].Interface(), nil
	case 2:
		var err error
		if e, ok := out[1].Interface().(error); ok {
			err = e
		}
		return out[0].Interface(), err
	default:
		return nil, fmt.Errorf("toolregistry: function returns %d values, expected at most 2", len(out))
	}
}
