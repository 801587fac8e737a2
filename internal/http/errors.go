package http

import (
	"github.com/danielgtaylor/huma/v2"
)

// errorModel is the single error payload shape served by the API.
type errorModel struct {
	status  int
	Message string `json:"error"`
}

func (e *errorModel) Error() string {
	return e.Message
}

func (e *errorModel) GetStatus() int {
	return e.status
}

// useFlatErrors replaces huma's RFC 7807 problem documents with the flat
// {"error": "..."} payload the frontend consumes.
func useFlatErrors() {
	huma.NewError = func(status int, message string, _ ...error) huma.StatusError {
		return &errorModel{status: status, Message: message}
	}
}
