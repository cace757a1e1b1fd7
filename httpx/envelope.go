package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/formloop/formloop/model"
)

// Envelope is the uniform response shape of every API endpoint.
type Envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string             `json:"code"`
	Details []model.FieldError `json:"details,omitempty"`
}

func OK(w http.ResponseWriter, r *http.Request, msg string, data any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, Envelope{Success: true, Message: msg, Data: data})
}

func Created(w http.ResponseWriter, r *http.Request, msg string, data any) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Envelope{Success: true, Message: msg, Data: data})
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, msg string, details []model.FieldError) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{
		Success: false,
		Message: msg,
		Error:   &ErrorBody{Code: code, Details: details},
	})
}
