package result

import "encoding/json"

// Of is a Result that carries a value of type T when its status is Success.
type Of[T any] struct {
	Result
	value T
}

// Value wraps v in a successful Of.
func Value[T any](v T) Of[T] {
	return Of[T]{Result: SuccessResult(), value: v}
}

// Lift converts a non-success Result into an Of[T]. Lifting a Success
// Result yields the zero value of T.
func Lift[T any](r Result) Of[T] {
	return Of[T]{Result: r}
}

// Value returns the carried value and whether the status is Success.
func (o Of[T]) Value() (T, bool) {
	if !o.IsSuccess() {
		var zero T
		return zero, false
	}
	return o.value, true
}

// WithMetadata returns a copy of o with key set to messages.
func (o Of[T]) WithMetadata(key string, messages ...string) Of[T] {
	o.Result = o.Result.WithMetadata(key, messages...)
	return o
}

// Map applies fn to the value of a successful Of. Other statuses pass
// through with their message and metadata.
func Map[T, U any](o Of[T], fn func(T) U) Of[U] {
	if !o.IsSuccess() {
		return Of[U]{Result: o.Result}
	}
	return Of[U]{Result: o.Result, value: fn(o.value)}
}

type wireOf[T any] struct {
	wireResult
	Value *T `json:"value,omitempty"`
}

func (o Of[T]) MarshalJSON() ([]byte, error) {
	w := wireOf[T]{wireResult: wireResult{Status: o.status, Message: o.message, Metadata: o.metadata}}
	if o.IsSuccess() {
		w.Value = &o.value
	}
	return json.Marshal(w)
}

func (o *Of[T]) UnmarshalJSON(data []byte) error {
	var w wireOf[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = Of[T]{Result: Result{status: w.Status, message: w.Message, metadata: w.Metadata}}
	if w.Value != nil && o.IsSuccess() {
		o.value = *w.Value
	}
	return nil
}
