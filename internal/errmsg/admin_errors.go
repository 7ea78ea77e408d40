package errmsg

import "net/http"

var (
	AdminNoToken = NewStatusError(
		http.StatusUnauthorized,
		"no token has been provided",
	)
	AdminWrongPassword = NewStatusError(
		http.StatusUnauthorized,
		"username or password is incorrect",
	)
	AdminInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"username and password must be provided",
	)
	ActorInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"preferredUsername must be provided",
	)
	ActorAlreadyExists = NewStatusError(
		http.StatusConflict,
		"actor already exists",
	)
)

type _AdminNoToken struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"no token has been provided"`
}

type _AdminWrongPassword struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"username or password is incorrect"`
}

type _AdminInvalidPayload struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"username and password must be provided"`
}

type _ActorInvalidPayload struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"preferredUsername must be provided"`
}

type _ActorAlreadyExists struct {
	StatusCode int    `json:"statusCode" example:"409"`
	Message    string `json:"message" example:"actor already exists"`
}
