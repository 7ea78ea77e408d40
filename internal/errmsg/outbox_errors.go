package errmsg

import (
	"fmt"
	"net/http"
)

var OutboxInvalidActivity = NewStatusError(
	http.StatusBadRequest,
	"Invalid activity",
)

// ActorNotFound carries the requested name so the response body matches
// `'{name}' not found on this instance` exactly.
func ActorNotFound(name string) StatusError {
	return NewStatusError(
		http.StatusNotFound,
		fmt.Sprintf("'%s' not found on this instance", name),
	)
}

var ObjectNotFound = NewStatusError(
	http.StatusNotFound,
	"object not found",
)

type _OutboxInvalidActivity struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"Invalid activity"`
}

type _ActorNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"'noone' not found on this instance"`
}

type _ObjectNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"object not found"`
}
