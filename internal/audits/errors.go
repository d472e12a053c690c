package audits

import (
	"errors"
	"net/http"
)

// Domain errors for audit operations.
var (
	ErrInvalidURL   = errors.New("invalid video url")
	ErrVideoTooLong = errors.New("video exceeds maximum audit duration")
)

// MapHTTPStatus maps audit domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidURL) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrVideoTooLong) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
