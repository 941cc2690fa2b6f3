package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a rejected request; the message is shown to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError names the missing resource, e.g. "Review".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UpstreamError is a failed call to the completion provider.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedUpstreamError means the provider answered but the body was not the
// expected JSON document. Raw holds the offending text for logs.
type MalformedUpstreamError struct {
	Raw    string
	Reason string
}

func (e *MalformedUpstreamError) Error() string {
	return "malformed AI output: " + e.Reason
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		forbidden    *ForbiddenError
		unauthorized *UnauthorizedError
		conflict     *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is the text put in the error body. Internal failures never
// leak their detail.
func clientMessage(err error) string {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		forbidden    *ForbiddenError
		unauthorized *UnauthorizedError
		conflict     *ConflictError
		upstream     *UpstreamError
		malformed    *MalformedUpstreamError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &forbidden):
		return forbidden.Message
	case errors.As(err, &unauthorized):
		return unauthorized.Message
	case errors.As(err, &conflict):
		return conflict.Message
	case errors.As(err, &malformed):
		return "AI returned invalid data format."
	case errors.As(err, &upstream):
		return "AI Service Error: " + upstream.Err.Error()
	default:
		return "Server Error"
	}
}
