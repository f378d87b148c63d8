package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title string   `json:"title" jsonschema:"minLength=1,maxLength=10"`
	Tags  []string `json:"tags,omitempty" jsonschema:"maxItems=2"`
}

func newSampleValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v := NewSchemaValidator()
	require.NoError(t, v.Register("sample", &sampleRequest{}))
	return v
}

func TestSchemaValidator_Valid(t *testing.T) {
	v := newSampleValidator(t)

	errs, err := v.Validate("sample", []byte(`{"title":"hello","tags":["a"]}`))
	require.NoError(t, err)
	assert.True(t, errs.Empty())
}

func TestSchemaValidator_FieldErrors(t *testing.T) {
	v := newSampleValidator(t)

	errs, err := v.Validate("sample", []byte(`{"title":"","tags":["a","b","c"]}`))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"title", "tags"}, errs.Fields())
	assert.Len(t, errs.Messages("title"), 1)

	r := ToResult(errs, true)
	assert.Contains(t, r.Metadata(), "title")
	assert.Contains(t, r.Metadata(), "tags")
}

func TestSchemaValidator_MissingProperty(t *testing.T) {
	v := newSampleValidator(t)

	errs, err := v.Validate("sample", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, errs.Fields())
	assert.Equal(t, []string{"is required"}, errs.Messages("title"))
}

func TestSchemaValidator_MalformedJSON(t *testing.T) {
	v := newSampleValidator(t)

	errs, err := v.Validate("sample", []byte(`{"title":`))
	require.NoError(t, err)
	assert.Equal(t, []string{BodyField}, errs.Fields())
}

func TestSchemaValidator_TrailingData(t *testing.T) {
	v := newSampleValidator(t)

	for _, body := range []string{
		`{"title":"a"} trailing`,
		`{"title":"a"}{"title":"b"}`,
		`{"title":"a"} 1`,
	} {
		errs, err := v.Validate("sample", []byte(body))
		require.NoError(t, err)
		assert.Equal(t, []string{BodyField}, errs.Fields(), body)
		assert.Equal(t, []string{"request body must hold a single JSON value"}, errs.Messages(BodyField), body)
	}

	errs, err := v.Validate("sample", []byte("{\"title\":\"a\"}\n  "))
	require.NoError(t, err)
	assert.True(t, errs.Empty(), "trailing whitespace is allowed")
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	v := NewSchemaValidator()

	_, err := v.Validate("missing", []byte(`{}`))
	assert.True(t, errors.Is(err, ErrUnknownSchema))
}

func TestSchemaValidator_Schema(t *testing.T) {
	v := newSampleValidator(t)

	source, ok := v.Schema("sample")
	require.True(t, ok)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(source, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"sample"}, v.Names())
}

func TestFieldName(t *testing.T) {
	tests := map[string]string{
		"":          BodyField,
		"/title":    "title",
		"/tags/0":   "tags.0",
		"/a~1b/c~0": "a/b.c~",
	}
	for in, want := range tests {
		assert.Equal(t, want, fieldName(in), in)
	}
}
