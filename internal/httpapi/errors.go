package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"composegen/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// requestError is an HTTPError for problems with the client's input.
type requestError struct {
	status int
	msg    string
}

func (e requestError) Error() string { return e.msg }
func (e requestError) StatusCode() int { return e.status }

func badRequest(format string, args ...any) error {
	return requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// statusOf maps err to the status code written to the client.
func statusOf(err error) int {
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
