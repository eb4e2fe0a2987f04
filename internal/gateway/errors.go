package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed search. It doubles as the outcome label on
// the search counter.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConfiguration
	KindUpstreamSemantic
	KindUpstreamTransport
	KindNetwork
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstreamSemantic:
		return "upstream_semantic"
	case KindUpstreamTransport:
		return "upstream_transport"
	case KindNetwork:
		return "network"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

const (
	msgMissingQuery      = "Missing search query"
	msgInvalidMaxResults = "maxResults must be a positive integer"
	msgAPIKeyNotSet      = "YouTube API key not set"
	msgNoResponse        = "No response from YouTube API. Please try again later."
	msgEndpointNotFound  = "Endpoint not found"
	msgInternal          = "Internal server error"
)

// RequestError is a failure detected locally, before any upstream call.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

var (
	ErrMissingQuery      = &RequestError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msgMissingQuery}
	ErrInvalidMaxResults = &RequestError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msgInvalidMaxResults}
	ErrAPIKeyNotSet      = &RequestError{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: msgAPIKeyNotSet}
)

// UpstreamError is the classified outcome of a failed call to the search
// provider. Status is the code the client will see.
type UpstreamError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details []any
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("youtube %s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("youtube %s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Response renders the client-facing status and body.
func (e *UpstreamError) Response() (int, ErrorResponse) {
	switch e.Kind {
	case KindUpstreamSemantic:
		return e.Status, ErrorResponse{Error: e.Message, Details: e.Details}
	case KindUpstreamTransport:
		return e.Status, ErrorResponse{Error: "YouTube API error: " + e.Message}
	case KindNetwork:
		return http.StatusBadGateway, ErrorResponse{Error: msgNoResponse}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "Server error: " + e.Message}
	}
}

func semanticError(apiErr *apiError) *UpstreamError {
	// The embedded code is not guaranteed to be a usable error status.
	status := apiErr.Code
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}
	return &UpstreamError{
		Kind:    KindUpstreamSemantic,
		Status:  status,
		Message: apiErr.Message,
		Details: apiErr.Errors,
	}
}

func networkError(err error) *UpstreamError {
	return &UpstreamError{
		Kind:    KindNetwork,
		Status:  http.StatusBadGateway,
		Message: msgNoResponse,
		Err:     err,
	}
}

func internalError(err error) *UpstreamError {
	return &UpstreamError{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
		Err:     err,
	}
}

// ErrorResponseFor maps any error returned by Server.Search onto the
// status and JSON body sent to clients.
func ErrorResponseFor(err error) (int, ErrorResponse) {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status, ErrorResponse{Error: re.Message}
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Response()
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "Server error: " + err.Error()}
}

func kindOf(err error) ErrorKind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindInternal
}
