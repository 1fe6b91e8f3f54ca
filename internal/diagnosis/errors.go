package diagnosis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes a failed attempt
type ErrorKind string

const (
	// KindInvalidFormat is an unsupported media type
	KindInvalidFormat ErrorKind = "invalid_format"

	// KindFileTooLarge is a file over the size cap
	KindFileTooLarge ErrorKind = "file_too_large"

	// KindRequestFailed is a non-2xx response from the service
	KindRequestFailed ErrorKind = "request_failed"

	// KindUnexpectedFailure is a transport, decode or internal failure
	KindUnexpectedFailure ErrorKind = "unexpected_failure"
)

// User-visible messages
const (
	MsgInvalidFormat     = "Invalid file type. Please upload JPG or PNG images only."
	MsgFileTooLarge      = "File too large. Maximum size is 10MB."
	MsgAnalysisFailed    = "Analysis failed"
	MsgUnexpectedFailure = "An error occurred during analysis. Please try again."
)

// Error is a failed attempt with a message fit for display
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{string(e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, "cause="+e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind when the target is an *Error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewInvalidFormat creates an InvalidFormat error
func NewInvalidFormat(mediaType string) *Error {
	return &Error{
		Kind:    KindInvalidFormat,
		Message: MsgInvalidFormat,
		Cause:   fmt.Errorf("media type %q not accepted", mediaType),
	}
}

// NewFileTooLarge creates a FileTooLarge error
func NewFileTooLarge(size, limit int64) *Error {
	return &Error{
		Kind:    KindFileTooLarge,
		Message: MsgFileTooLarge,
		Cause:   fmt.Errorf("%d bytes exceeds limit of %d", size, limit),
	}
}

// NewRequestFailed creates a RequestFailed error; an empty message falls back to MsgAnalysisFailed
func NewRequestFailed(statusCode int, message string) *Error {
	if strings.TrimSpace(message) == "" {
		message = MsgAnalysisFailed
	}
	return &Error{
		Kind:       KindRequestFailed,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewUnexpectedFailure wraps cause as an UnexpectedFailure
func NewUnexpectedFailure(cause error) *Error {
	return &Error{
		Kind:    KindUnexpectedFailure,
		Message: MsgUnexpectedFailure,
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or KindUnexpectedFailure for foreign errors
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpectedFailure
}

// IsKind reports whether err is a diagnosis error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// UserMessage returns the text to show for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return MsgUnexpectedFailure
}
