// Package result defines the outcome values returned by application code:
// a closed Status tag plus an optional message, field metadata and, for Of,
// a success value.
package result

import (
	"encoding/json"
	"maps"
	"slices"
)

// Result is an outcome without a value. It is immutable: WithMetadata
// returns a modified copy.
type Result struct {
	status   Status
	message  string
	metadata map[string][]string
}

// New builds a Result with an arbitrary status. The status is not checked
// here; an invalid one is rejected when the Result is mapped to a response.
func New(status Status, message string) Result {
	return Result{status: status, message: message}
}

func SuccessResult() Result { return Result{status: Success} }

func FailureResult(message string) Result { return New(Failure, message) }

func ForbiddenResult() Result { return Result{status: Forbidden} }

func UnauthorizedResult(message string) Result { return New(Unauthorized, message) }

func InvalidResult(message string) Result { return New(Invalid, message) }

func NotFoundResult(message string) Result { return New(NotFound, message) }

func ConflictResult(message string) Result { return New(Conflict, message) }

func UnsupportedResult() Result { return Result{status: Unsupported} }

// FromError builds a Result with the given status carrying err's message.
// A nil err yields an empty message.
func FromError(status Status, err error) Result {
	if err == nil {
		return New(status, "")
	}
	return New(status, err.Error())
}

func (r Result) Status() Status { return r.status }

func (r Result) Message() string { return r.message }

// Deprecated: ErrorMessage is the retired name for Message.
func (r Result) ErrorMessage() string { return r.message }

func (r Result) IsSuccess() bool { return r.status == Success }

// Metadata returns a copy of the field metadata, or nil when none is set.
func (r Result) Metadata() map[string][]string {
	if len(r.metadata) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = slices.Clone(v)
	}
	return out
}

// WithMetadata returns a copy of r with key set to messages, replacing any
// previous entry for key.
func (r Result) WithMetadata(key string, messages ...string) Result {
	md := maps.Clone(r.metadata)
	if md == nil {
		md = make(map[string][]string, 1)
	}
	md[key] = slices.Clone(messages)
	r.metadata = md
	return r
}

type wireResult struct {
	Status   Status              `json:"status"`
	Message  string              `json:"message,omitempty"`
	Metadata map[string][]string `json:"metadata,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireResult{Status: r.status, Message: r.message, Metadata: r.metadata})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Result{status: w.Status, message: w.Message, metadata: w.Metadata}
	return nil
}
