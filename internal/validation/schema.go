package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	schemagen "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	schemaBaseURL = "https://result-service.local/schemas/"

	// BodyField is the key used for errors that are not tied to a single field.
	BodyField = "body"
)

// ErrUnknownSchema is returned when validating against a name that was never
// registered.
var ErrUnknownSchema = errors.New("unknown schema")

// SchemaValidator validates JSON request bodies against schemas generated
// from Go types.
type SchemaValidator struct {
	mu       sync.RWMutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
	sources  map[string][]byte
}

// NewSchemaValidator creates an empty validator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
		sources:  make(map[string][]byte),
	}
}

// Register generates a schema from the type of v and compiles it under name.
// Struct tags follow github.com/invopop/jsonschema conventions.
func (v *SchemaValidator) Register(name string, dto any) error {
	reflector := &schemagen.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	source, err := json.Marshal(reflector.Reflect(dto))
	if err != nil {
		return fmt.Errorf("failed to generate schema %s: %w", name, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	url := schemaBaseURL + name + ".json"
	if err := v.compiler.AddResource(url, bytes.NewReader(source)); err != nil {
		return fmt.Errorf("failed to add schema %s: %w", name, err)
	}
	sch, err := v.compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	v.schemas[name] = sch
	v.sources[name] = source
	return nil
}

// Schema returns the generated JSON schema registered under name.
func (v *SchemaValidator) Schema(name string) ([]byte, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	source, ok := v.sources[name]
	return source, ok
}

// Names returns the registered schema names.
func (v *SchemaValidator) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.sources))
	for name := range v.sources {
		names = append(names, name)
	}
	return names
}

// Validate checks data against the schema registered under name. Validation
// failures are returned as an ErrorSet; the error is reserved for an unknown
// schema. Malformed JSON and data after the first JSON value are reported
// under BodyField.
func (v *SchemaValidator) Validate(name string, data []byte) (*ErrorSet, error) {
	v.mu.RLock()
	sch, ok := v.schemas[name]
	v.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	errs := NewErrorSet()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		errs.Add(BodyField, "request body is not valid JSON")
		return errs, nil
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		errs.Add(BodyField, "request body must hold a single JSON value")
		return errs, nil
	}

	err := sch.Validate(doc)
	if err == nil {
		return errs, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		errs.Add(BodyField, err.Error())
		return errs, nil
	}
	collectLeaves(ve, errs)
	return errs, nil
}

func collectLeaves(ve *jsonschema.ValidationError, errs *ErrorSet) {
	if len(ve.Causes) == 0 {
		if missing, ok := missingProperties(ve.Message); ok {
			for _, prop := range missing {
				errs.Add(joinField(fieldName(ve.InstanceLocation), prop), "is required")
			}
			return
		}
		errs.Add(fieldName(ve.InstanceLocation), ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, errs)
	}
}

// missingProperties extracts property names from a "required" failure.
func missingProperties(msg string) ([]string, bool) {
	rest, ok := strings.CutPrefix(msg, "missing properties: ")
	if !ok {
		return nil, false
	}
	var props []string
	for _, p := range strings.Split(rest, ",") {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		if p != "" {
			props = append(props, p)
		}
	}
	return props, len(props) > 0
}

// fieldName converts a JSON pointer such as /tags/0 into tags.0.
func fieldName(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return BodyField
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}

func joinField(parent, child string) string {
	if parent == BodyField {
		return child
	}
	return parent + "." + child
}
