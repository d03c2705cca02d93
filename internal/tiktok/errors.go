package tiktok

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes for TikTok platform failures
const (
	CodeAuth       = "AUTH_ERROR"
	CodeAPI        = "API_ERROR"
	CodeRateLimit  = "RATE_LIMIT"
	CodeValidation = "VALIDATION_ERROR"
	CodeUnknown    = "UNKNOWN_ERROR"
)

// Error is the single failure type for TikTok operations. Code is the
// variant discriminant; Status is the HTTP status associated with the
// variant, or 0 when no structured response was observed.
type Error struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Status  int                    `json:"status,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("tiktok: %s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("tiktok: %s (%s)", e.Message, e.Code)
}

// NewAuthError reports a failed credential exchange
func NewAuthError(message string) *Error {
	if message == "" {
		message = "authentication failed"
	}
	return &Error{Message: message, Code: CodeAuth, Status: http.StatusUnauthorized}
}

// NewAPIError reports a non-success platform response with its status
func NewAPIError(message string, status int) *Error {
	if message == "" {
		message = "TikTok API error"
	}
	return &Error{Message: message, Code: CodeAPI, Status: status}
}

// NewRateLimitError reports an exhausted throttling budget
func NewRateLimitError(message string) *Error {
	if message == "" {
		message = "rate limit exceeded"
	}
	return &Error{Message: message, Code: CodeRateLimit, Status: http.StatusTooManyRequests}
}

// NewValidationError reports malformed input caught before any network call.
// The violation list is carried under Details["errors"].
func NewValidationError(message string, violations []string) *Error {
	if message == "" {
		message = "validation failed"
	}
	err := &Error{Message: message, Code: CodeValidation, Status: http.StatusBadRequest}
	if len(violations) > 0 {
		err.Details = map[string]interface{}{"errors": violations}
	}
	return err
}

// NewUnknownError reports a failure with no structured platform response.
// It carries no status.
func NewUnknownError(message string) *Error {
	if message == "" {
		message = "unknown error"
	}
	return &Error{Message: message, Code: CodeUnknown}
}

// platformBody is the error envelope the platform returns on non-2xx
type platformBody struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// TranslateResponse maps a non-success platform response to exactly one
// Error variant: 401 to AUTH_ERROR, 429 to RATE_LIMIT, anything else to
// API_ERROR carrying the response status and the body's message when one
// is present. The mapping is total; no input is swallowed.
func TranslateResponse(status int, body []byte) *Error {
	message := extractMessage(body)

	switch status {
	case http.StatusUnauthorized:
		return NewAuthError(message)
	case http.StatusTooManyRequests:
		return NewRateLimitError(message)
	default:
		if message == "" {
			message = "TikTok API request failed"
		}
		return NewAPIError(message, status)
	}
}

// TranslateTransport maps a transport-level failure (no structured response
// observed) to the generic unknown variant.
func TranslateTransport(err error) *Error {
	if err == nil {
		return NewUnknownError("")
	}
	return NewUnknownError(err.Error())
}

func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var envelope platformBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error.Message
}
