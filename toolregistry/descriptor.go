// Package toolregistry implements the unified catalog of local callables
// and remote tools: schema derivation, registration, dispatch, and
// result normalization.
package toolregistry

import "encoding/json"

// Origin distinguishes where a tool descriptor's executor lives.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// ParameterSchema is a JSON-schema-shaped description of a tool's
// arguments: a map from parameter name to its property definition, plus
// the list of required parameter names.
type ParameterSchema struct {
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema describes one parameter.
type PropertySchema struct {
	Type        string `json:"type"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Descriptor is a registry entry: the catalog-visible shape of a tool,
// independent of whether it is local or remote.
type Descriptor struct {
	Name            string
	Description     string
	ParametersSchema ParameterSchema
	Origin          Origin
}

// RawSchema renders the descriptor's ParametersSchema as the JSON-schema
// document expected by jsonschema.Compiler and by structured-output
// providers.
func (d Descriptor) RawSchema() (json.RawMessage, error) {
	properties := make(map[string]any, len(d.ParametersSchema.Properties))
	for name, prop := range d.ParametersSchema.Properties {
		entry := map[string]any{"type": prop.Type}
		if prop.Default != nil {
			entry["default"] = prop.Default
		}
		if prop.Description != "" {
			entry["description"] = prop.Description
		}
		properties[name] = entry
	}
	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(d.ParametersSchema.Required) > 0 {
		doc["required"] = d.ParametersSchema.Required
	}
	return json.Marshal(doc)
}
