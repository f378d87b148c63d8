// Package validation turns field-level validation errors into Invalid
// Results.
package validation

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrorSet holds validation messages keyed by field name. Fields keep the
// order in which they were first added; messages keep their insertion order
// within a field. The zero value is an empty set ready to use.
type ErrorSet struct {
	fields *orderedmap.OrderedMap[string, []string]
}

// NewErrorSet returns an empty set.
func NewErrorSet() *ErrorSet {
	return &ErrorSet{fields: orderedmap.New[string, []string]()}
}

// Add appends messages to field. Adding a field with no messages records it
// as a field without errors.
func (s *ErrorSet) Add(field string, messages ...string) {
	if s.fields == nil {
		s.fields = orderedmap.New[string, []string]()
	}
	existing, _ := s.fields.Get(field)
	s.fields.Set(field, append(slices.Clone(existing), messages...))
}

// Fields returns the field names in insertion order, including fields that
// have no messages.
func (s *ErrorSet) Fields() []string {
	if s == nil || s.fields == nil {
		return nil
	}
	out := make([]string, 0, s.fields.Len())
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Messages returns a copy of the messages recorded for field.
func (s *ErrorSet) Messages(field string) []string {
	if s == nil || s.fields == nil {
		return nil
	}
	msgs, _ := s.fields.Get(field)
	return slices.Clone(msgs)
}

// Len returns the total number of messages across all fields.
func (s *ErrorSet) Len() int {
	if s == nil || s.fields == nil {
		return 0
	}
	n := 0
	for pair := s.fields.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Value)
	}
	return n
}

// Empty reports whether the set holds no messages.
func (s *ErrorSet) Empty() bool {
	return s.Len() == 0
}
