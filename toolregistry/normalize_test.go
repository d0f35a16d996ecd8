package toolregistry

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeText struct{ text string }

func (f fakeText) Text() (string, bool) { return f.text, true }

type fakeData struct {
	data     []byte
	mimeType string
}

func (f fakeData) Data() ([]byte, bool)     { return f.data, true }
func (f fakeData) MimeType() (string, bool) { return f.mimeType, true }

type fakeModel struct{ value string }

func (f fakeModel) ToMap() map[string]any { return map[string]any{"value": f.value} }

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalizeList(t *testing.T) {
	got := Normalize([]any{1, "two", nil})
	assert.Equal(t, []any{1, "two", nil}, got)
}

func TestNormalizeTextParsesJSON(t *testing.T) {
	got := Normalize(fakeText{text: `{"a":1}`})
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestNormalizeTextFallsBackToRawOnParseFailure(t *testing.T) {
	got := Normalize(fakeText{text: "not json"})
	assert.Equal(t, "not json", got)
}

func TestNormalizeDataWithMimeType(t *testing.T) {
	got := Normalize(fakeData{data: []byte("abc"), mimeType: "text/plain"})
	assert.Equal(t, map[string]any{
		"mime_type": "text/plain",
		"data":      base64.StdEncoding.EncodeToString([]byte("abc")),
	}, got)
}

func TestNormalizeModel(t *testing.T) {
	got := Normalize(fakeModel{value: "x"})
	assert.Equal(t, map[string]any{"value": "x"}, got)
}

func TestNormalizePrimitivePassthrough(t *testing.T) {
	assert.Equal(t, "plain", Normalize("plain"))
	assert.Equal(t, map[string]any{"k": "v"}, Normalize(map[string]any{"k": "v"}))
}

func TestNormalizeFallsBackToStringCoercion(t *testing.T) {
	type opaque struct{ X int }
	got := Normalize(opaque{X: 5})
	assert.Equal(t, "{5}", got)
}
