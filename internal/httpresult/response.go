// Package httpresult maps Results onto HTTP responses.
//
// The mapping is a fixed table keyed by result.Status:
//
//	Success      200  no body (Of[T]: the value)
//	Failure      400  message
//	Forbidden    403  no body
//	Unauthorized 401  message
//	Invalid      400  message
//	NotFound     404  message
//	Conflict     409  message
//	Unsupported  501  no body
//
// A status outside the closed set is a programming error and panics.
package httpresult

import (
	"fmt"
	"net/http"

	"result-service/internal/result"
)

// Response describes the HTTP response for a Result: a status code and an
// optional body.
type Response struct {
	StatusCode int
	Body       any
	hasBody    bool
}

// HasBody reports whether the response carries a body. A body may be
// present and still be an empty string.
func (r Response) HasBody() bool {
	return r.hasBody
}

func status(code int) Response {
	return Response{StatusCode: code}
}

func object(code int, body any) Response {
	return Response{StatusCode: code, Body: body, hasBody: true}
}

// UnknownStatusError is the panic value raised for a status outside the
// closed set.
type UnknownStatusError struct {
	Status result.Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown result status: %s", e.Status)
}

// ToResponse returns the response descriptor for r.
func ToResponse(r result.Result) Response {
	switch r.Status() {
	case result.Success:
		return status(http.StatusOK)
	case result.Failure:
		return object(http.StatusBadRequest, r.Message())
	case result.Forbidden:
		return status(http.StatusForbidden)
	case result.Unauthorized:
		return object(http.StatusUnauthorized, r.Message())
	case result.Invalid:
		return object(http.StatusBadRequest, r.Message())
	case result.NotFound:
		return object(http.StatusNotFound, r.Message())
	case result.Conflict:
		return object(http.StatusConflict, r.Message())
	case result.Unsupported:
		return status(http.StatusNotImplemented)
	default:
		panic(&UnknownStatusError{Status: r.Status()})
	}
}

// ToResponseOf returns 200 with the carried value for a successful o and
// defers to ToResponse for every other status.
func ToResponseOf[T any](o result.Of[T]) Response {
	if v, ok := o.Value(); ok {
		return object(http.StatusOK, v)
	}
	return ToResponse(o.Result)
}
