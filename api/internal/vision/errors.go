package vision

import (
	"errors"
	"fmt"
)

// Code classifies an estimation failure. Exactly one code is attached to
// every error an Engine returns, so callers can branch without inspecting
// provider-specific shapes.
type Code string

const (
	CodeMissingImage Code = "MISSING_IMAGE"
	CodeMissingKey   Code = "MISSING_API_KEY"
	CodeHTTP         Code = "HTTP"
	CodeEmpty        Code = "EMPTY"
	CodeSchema       Code = "SCHEMA"
	CodeTimeout      Code = "TIMEOUT"
	CodeNetwork      Code = "NETWORK"
)

// Error is the single failure type engines surface.
type Error struct {
	Code    Code
	Status  int    // HTTP status, set for CodeHTTP
	Details string // short diagnostic, never shown to end users
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("estimation failed: %s (status %d)", e.Code, e.Status)
	case e.cause != nil:
		return fmt.Sprintf("estimation failed: %s: %v", e.Code, e.cause)
	}
	return fmt.Sprintf("estimation failed: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

func NewError(code Code, cause error) *Error {
	return &Error{Code: code, cause: cause}
}

// CodeOf extracts the classification, or "" for foreign errors.
func CodeOf(err error) Code {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

var userMessages = map[Code]string{
	CodeMissingImage: "No photo was provided. Take or choose a meal photo first.",
	CodeMissingKey:   "No API key is configured. Add one in settings.",
	CodeHTTP:         "The estimation service rejected the request. Try again later.",
	CodeEmpty:        "The model returned no result for this photo. Try again or retake the photo.",
	CodeSchema:       "The model reply could not be understood. Try again.",
	CodeTimeout:      "The estimation took too long and was cancelled. Check your connection and retry.",
	CodeNetwork:      "Could not reach the estimation service. Check your connection.",
}

// UserMessage maps a failure to guidance fit for the UI. Raw provider
// payloads and stack traces never leak through here.
func UserMessage(err error) string {
	if msg, ok := userMessages[CodeOf(err)]; ok {
		return msg
	}
	return "Estimation failed. Please try again."
}
