// Package http provides HTTP server and handler implementations.
//
// This file implements the builder used for every JSON response, plus the
// mapping from domain and storage errors to HTTP status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgetwise/internal/advisor"
	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/services"
	"budgetwise/internal/store"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent || b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

// errorBody is the payload of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

var validationErrors = []error{
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrInvalidTarget,
	core.ErrInvalidGoalType,
	core.ErrEmptyTitle,
	core.ErrEmptySource,
	core.ErrEmptyCategory,
	core.ErrTitleTooLong,
	core.ErrAmountPrecision,
	core.ErrAmountTooLarge,
	core.ErrEmptySubject,
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	core.ErrInvalidEmail,
	core.ErrInvalidStatus,
	advisor.ErrEmptyQuestion,
	advisor.ErrQuestionTooLong,
}

// statusFor maps service and storage errors to a status code and a message
// that is safe to show to clients.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, ErrMalformedBody.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict, "already exists"
	case errors.Is(err, store.ErrUnsupported):
		return http.StatusNotImplemented, "operation not supported by the configured backend"
	case errors.Is(err, advisor.ErrModel), errors.Is(err, advisor.ErrEmptyReply):
		return http.StatusBadGateway, "the advisor could not answer, try again later"
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity, v.Error()
		}
	}
	if errors.Is(err, services.ErrInvalidRecord) {
		return http.StatusUnprocessableEntity, "invalid record"
	}
	return http.StatusInternalServerError, "internal error"
}

// writeError logs err and sends the mapped error response.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	code, msg := statusFor(err)
	logger := log.FromContext(r.Context())
	fields := log.NewFields().WithOperation(operation).WithError(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", fields.ToSlice()...)
	} else {
		logger.WarnContext(r.Context(), "Request rejected", fields.WithHTTPResponse(code, 0, false).ToSlice()...)
	}
	ErrorResponse(code, msg).Write(w)
}
