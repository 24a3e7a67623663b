// Package apierrors provides structured API error codes and responses.
// All codes are namespaced (e.g., "core:not_found", "football:import_failed").
package apierrors

import "net/http"

// Core error codes - registered automatically at init
const (
	// Authentication & Authorization
	CodeUnauthorized = "core:unauthorized"
	CodeForbidden    = "core:forbidden"
	CodeInvalidToken = "core:invalid_token"
	CodeTokenExpired = "core:token_expired"

	// Request errors
	CodeInvalidRequest   = "core:invalid_request"
	CodeValidationFailed = "core:validation_failed"
	CodeInvalidID        = "core:invalid_id"

	// Resource errors
	CodeNotFound = "core:not_found"
	CodeConflict = "core:conflict"

	// Rate limiting
	CodeRateLimited = "core:rate_limited"

	// Server errors
	CodeInternalError      = "core:internal_error"
	CodeServiceUnavailable = "core:service_unavailable"
	CodeQueueUnavailable   = "core:queue_unavailable"
)

// Football domain error codes
const (
	CodeImportFailed    = "football:import_failed"
	CodeUpstreamTimeout = "football:upstream_timeout"
	CodeUpstreamError   = "football:upstream_error"
	CodeExportFailed    = "football:export_failed"
)

// Social domain error codes
const (
	CodeUserExists         = "social:user_exists"
	CodeInvalidCredentials = "social:invalid_credentials"
	CodePostNotFound       = "social:post_not_found"
	CodeAlreadyLiked       = "social:already_liked"
)

// coreErrors defines all built-in error codes with default messages and HTTP status
var coreErrors = []ErrorCode{
	{Code: CodeUnauthorized, Message: "Authentication required", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeForbidden, Message: "Permission denied", HTTPStatus: http.StatusForbidden},
	{Code: CodeInvalidToken, Message: "Invalid or malformed token", HTTPStatus: http.StatusUnauthorized},
	{Code: CodeTokenExpired, Message: "Token has expired", HTTPStatus: http.StatusUnauthorized},

	{Code: CodeInvalidRequest, Message: "Invalid request body", HTTPStatus: http.StatusBadRequest},
	{Code: CodeValidationFailed, Message: "Request validation failed", HTTPStatus: http.StatusBadRequest},
	{Code: CodeInvalidID, Message: "Invalid ID format", HTTPStatus: http.StatusBadRequest},

	{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound},
	{Code: CodeConflict, Message: "Resource conflict", HTTPStatus: http.StatusConflict},

	{Code: CodeRateLimited, Message: "Too many requests", HTTPStatus: http.StatusTooManyRequests},

	{Code: CodeInternalError, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError},
	{Code: CodeServiceUnavailable, Message: "Service temporarily unavailable", HTTPStatus: http.StatusServiceUnavailable},
	{Code: CodeQueueUnavailable, Message: "Background import queue is not configured", HTTPStatus: http.StatusServiceUnavailable},

	{Code: CodeImportFailed, Message: "Data import failed", HTTPStatus: http.StatusBadGateway},
	{Code: CodeUpstreamTimeout, Message: "Football data provider timed out", HTTPStatus: http.StatusGatewayTimeout},
	{Code: CodeUpstreamError, Message: "Football data provider returned an error", HTTPStatus: http.StatusBadGateway},
	{Code: CodeExportFailed, Message: "Export generation failed", HTTPStatus: http.StatusInternalServerError},

	{Code: CodeUserExists, Message: "Username or email already registered", HTTPStatus: http.StatusConflict},
	{Code: CodeInvalidCredentials, Message: "Invalid username or password", HTTPStatus: http.StatusUnauthorized},
	{Code: CodePostNotFound, Message: "Post not found", HTTPStatus: http.StatusNotFound},
	{Code: CodeAlreadyLiked, Message: "Post already liked", HTTPStatus: http.StatusConflict},
}

func init() {
	// Register all built-in error codes
	for _, e := range coreErrors {
		Registry.Register(e)
	}
}
