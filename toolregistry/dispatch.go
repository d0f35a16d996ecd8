package toolregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/sandipan1/hica/hicaerrors"
)

// Execute dispatches a tool call by name, validates arguments against the
// tool's schema, invokes the local executor or the bound remote
// connection, and normalizes the result into a Result. Unregistered
// names fail with UnknownTool; schema violations fail with
// ParameterValidation.
func (r *Registry) Execute(ctx context.Context, name string, arguments map[string]any) (Result, error) {
	r.mu.RLock()
	desc, known := r.catalog[name]
	localTool, isLocal := r.localTools[name]
	remote, isRemote := r.remote[name]
	r.mu.RUnlock()

	if !known {
		r.logger.Error(ctx, "tool not found in registry", "name", name)
		return Result{}, hicaerrors.Newf(hicaerrors.UnknownTool, "tool %q not found", name)
	}

	if err := validateArguments(desc, arguments); err != nil {
		return Result{}, err
	}

	switch {
	case isLocal:
		r.logger.Info(ctx, "executing local tool", "name", name)
		res, err := localTool.Execute(ctx, arguments)
		if err != nil {
			return Result{}, hicaerrors.Wrap(hicaerrors.ToolExecutionError, fmt.Sprintf("local tool %q failed", name), err)
		}
		return res, nil
	case isRemote:
		r.logger.Info(ctx, "executing remote tool", "name", name)
		return r.executeRemote(ctx, remote, name, arguments)
	default:
		return Result{}, hicaerrors.Newf(hicaerrors.UnknownTool, "tool %q not found", name)
	}
}

func (r *Registry) executeRemote(ctx context.Context, entry remoteEntry, name string, arguments map[string]any) (Result, error) {
	payload, err := json.Marshal(arguments)
	if err != nil {
		return Result{}, hicaerrors.Wrap(hicaerrors.SerializationError, "marshal tool arguments", err)
	}

	raw, err := entry.conn.CallTool(ctx, name, payload)
	if err != nil {
		return Result{}, hicaerrors.Wrap(hicaerrors.ToolExecutionError, fmt.Sprintf("remote tool %q failed", name), err)
	}
	return normalizeRemoteResult(raw), nil
}

// validateArguments compiles the tool's parameter schema and validates
// arguments against it, grounded on registry/service.go's
// validatePayloadJSONAgainstSchema.
func validateArguments(desc Descriptor, arguments map[string]any) error {
	schemaBytes, err := desc.RawSchema()
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "marshal tool schema", err)
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaBytes, &schemaDoc); err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "unmarshal tool schema", err)
	}

	c := jsonschema.NewCompiler()
	resourceName := "schema-" + strings.ReplaceAll(desc.Name, " ", "_") + ".json"
	if err := c.AddResource(resourceName, schemaDoc); err != nil {
		return hicaerrors.Wrap(hicaerrors.ParameterValidation, "add schema resource", err)
	}
	schema, err := c.Compile(resourceName)
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.ParameterValidation, "compile tool schema", err)
	}

	payload := make(map[string]any, len(arguments))
	for k, v := range arguments {
		payload[k] = v
	}
	if err := schema.Validate(payload); err != nil {
		return hicaerrors.Wrap(hicaerrors.ParameterValidation, fmt.Sprintf("arguments for tool %q do not satisfy schema", desc.Name), err)
	}
	return nil
}
