package toolregistry

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandipan1/hica/remotetool"
)

// normalizeRemoteResult turns a remotetool.CallResult into a Result,
// grounded on the original's execute_tool MCP branch: if structured
// content is present, LLMContent is a compact JSON string of it; if text
// content blocks are present, DisplayContent is their space-joined
// concatenation; if neither is present, both fall back to a string
// coercion of the whole result.
func normalizeRemoteResult(raw remotetool.CallResult) Result {
	var llmContent, displayContent string

	if len(raw.StructuredContent) > 0 {
		normalized := Normalize(json.RawMessage(raw.StructuredContent))
		if compact, err := json.Marshal(normalized); err == nil {
			llmContent = string(compact)
		}
	}

	if len(raw.TextContent) > 0 {
		displayContent = strings.Join(raw.TextContent, " ")
	}

	if llmContent == "" {
		llmContent = fmt.Sprintf("%v", Normalize(raw))
	}
	if displayContent == "" {
		displayContent = llmContent
	}

	return Result{LLMContent: llmContent, DisplayContent: displayContent, RawResult: raw}
}

// textCarrier and dataCarrier are the interfaces a raw result may satisfy
// to be recognized by Normalize's text/data branches, grounded on the
// original's hasattr(result, "text") / hasattr(result, "data") checks.
type textCarrier interface {
	Text() (string, bool)
}

type dataCarrier interface {
	Data() ([]byte, bool)
}

type mimeTyped interface {
	MimeType() (string, bool)
}

type mapConvertible interface {
	ToMap() map[string]any
}

// Normalize applies the shared result-normalization precedence,
// resolved against the original's serialize_mcp_result:
//
//  1. nil -> nil
//  2. []any -> recursively normalize each element
//  3. a value carrying a Text() accessor -> attempt JSON-parse the text;
//     on failure pass the raw text through unchanged
//  4. a value carrying a Data() accessor -> if it also carries a
//     MimeType(), emit {"mime_type": ..., "data": base64(...)}; else
//     emit the base64 string alone
//  5. a value implementing ToMap() (the Go analogue of Pydantic's
//     model_dump) -> its map form
//  6. primitives and map[string]any -> passthrough
//  7. anything else -> string coercion via fmt.Sprintf("%v", v)
func Normalize(v any) any {
	if v == nil {
		return nil
	}

	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = Normalize(item)
		}
		return out
	}

	if tc, ok := v.(textCarrier); ok {
		if text, present := tc.Text(); present {
			var parsed any
			if err := json.Unmarshal([]byte(text), &parsed); err == nil {
				return parsed
			}
			return text
		}
	}

	if dc, ok := v.(dataCarrier); ok {
		if data, present := dc.Data(); present {
			encoded := base64.StdEncoding.EncodeToString(data)
			if mt, ok := v.(mimeTyped); ok {
				if mimeType, present := mt.MimeType(); present {
					return map[string]any{"mime_type": mimeType, "data": encoded}
				}
			}
			return encoded
		}
	}

	if mc, ok := v.(mapConvertible); ok {
		return mc.ToMap()
	}

	switch v.(type) {
	case string, bool, int, int64, float64, map[string]any:
		return v
	}

	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return Normalize(decoded)
		}
	}

	return fmt.Sprintf("%v", v)
}
