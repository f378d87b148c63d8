package httpresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrEncodeBody is returned by Write when the body cannot be encoded. Nothing
// has been written to the client in that case.
var ErrEncodeBody = errors.New("failed to encode response body")

// Write sends resp to w. Bodies are JSON encoded; body-less responses only
// write the status code.
func Write(w http.ResponseWriter, resp Response) error {
	if !resp.HasBody() {
		w.WriteHeader(resp.StatusCode)
		return nil
	}

	data, err := json.Marshal(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeBody, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write response body: %w", err)
	}
	return nil
}
