package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
	"github.com/pocketarcade/coinledger/internal/services/token"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Missing, malformed and expired credentials are deliberately
	// indistinguishable to callers; internal logs may tell them apart
	case errors.Is(err, token.ErrTokenMissing),
		errors.Is(err, token.ErrTokenMalformed),
		errors.Is(err, token.ErrTokenExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}

	case errors.Is(err, model.ErrSignatureInvalid):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Identity assertion rejected"}}

	case errors.Is(err, ledger.ErrInsecureAuthDisabled):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Trusted-mode authentication is disabled"}}

	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}

	case errors.Is(err, model.ErrInsufficientBalance):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientBalance, "Balance cannot go negative"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
