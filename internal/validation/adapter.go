package validation

import (
	"strings"

	"result-service/internal/httpresult"
	"result-service/internal/result"
)

// ToResult flattens errs into a single Invalid Result. The message is every
// message joined by a space, in field order then message order. With
// includeMetadata, each field that has at least one message is attached as
// metadata.
//
// An empty or nil set still yields Invalid with an empty message: callers
// decide whether validation failed before converting.
func ToResult(errs *ErrorSet, includeMetadata bool) result.Result {
	var all []string
	for _, field := range errs.Fields() {
		all = append(all, errs.Messages(field)...)
	}

	r := result.InvalidResult(strings.Join(all, " "))
	if !includeMetadata {
		return r
	}

	for _, field := range errs.Fields() {
		msgs := errs.Messages(field)
		if len(msgs) == 0 {
			continue
		}
		r = r.WithMetadata(field, msgs...)
	}
	return r
}

// ToResponse converts errs with ToResult and maps the outcome.
func ToResponse(errs *ErrorSet, includeMetadata bool) httpresult.Response {
	return httpresult.ToResponse(ToResult(errs, includeMetadata))
}
