package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the error body for every failed request.
type APIError struct {
	Error string `json:"error"`
}

// OK sends a 200 response with data as the body.
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// Error sends a JSON error response using APIError.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, APIError{Error: message})
}

// BadRequest sends 400 with message.
func BadRequest(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, message)
}

// Unprocessable sends 422 for bodies that fail request-schema validation.
func Unprocessable(c echo.Context, message string) error {
	return Error(c, http.StatusUnprocessableEntity, message)
}

// InternalError sends 500 with message.
func InternalError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, message)
}
