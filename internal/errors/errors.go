package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrKeywordNotFound is returned when a keyword does not exist or is not owned by the caller.
	ErrKeywordNotFound = errors.New("keyword not found")
	// ErrKeywordExists is returned when the (user, keyword) pair already exists.
	ErrKeywordExists = errors.New("keyword already exists")
	// ErrKeywordLimitExceeded is returned when a free user is at the keyword cap.
	ErrKeywordLimitExceeded = errors.New("keyword limit reached, upgrade to premium for unlimited keywords")
	// ErrThreadNotFound is returned when a thread does not exist or is not owned by the caller.
	ErrThreadNotFound = errors.New("thread not found")
	// ErrThreadUpgradeRequired is returned when a thread exists but falls outside
	// the free tier's visibility window.
	ErrThreadUpgradeRequired = errors.New("upgrade to premium to access older threads")
	// ErrNoKeywords is returned when a digest is requested with no keywords configured.
	ErrNoKeywords = errors.New("no keywords configured")
	// ErrQueryLimitExceeded is returned when a free user exhausted the daily query quota.
	ErrQueryLimitExceeded = errors.New("daily query limit reached, upgrade to premium for unlimited queries")
	// ErrUserNotFound is returned when a user record is missing.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoNewsData is returned when no crawler artifact exists for a date.
	ErrNoNewsData = errors.New("no news data available for this date")
	// ErrRetrievalFailed is returned when the retrieval backend cannot answer.
	ErrRetrievalFailed = errors.New("retrieval backend error")
)

// ErrorResponse represents a standardized error response. Details carries
// structured metadata such as remaining quota for limit errors.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]interface{}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// WithDetails attaches structured metadata to the error.
func (e *HTTPError) WithDetails(details map[string]interface{}) *HTTPError {
	e.Details = details
	return e
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrKeywordNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "KEYWORD_NOT_FOUND")
	case errors.Is(err, ErrKeywordExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "KEYWORD_EXISTS")
	case errors.Is(err, ErrKeywordLimitExceeded):
		return NewHTTPError(http.StatusForbidden, err.Error(), "KEYWORD_LIMIT_EXCEEDED")
	case errors.Is(err, ErrThreadNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "THREAD_NOT_FOUND")
	case errors.Is(err, ErrThreadUpgradeRequired):
		return NewHTTPError(http.StatusForbidden, err.Error(), "UPGRADE_REQUIRED")
	case errors.Is(err, ErrNoKeywords):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NO_KEYWORDS")
	case errors.Is(err, ErrQueryLimitExceeded):
		return NewHTTPError(http.StatusForbidden, err.Error(), "QUERY_LIMIT_EXCEEDED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrNoNewsData):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "NO_NEWS_DATA")
	case errors.Is(err, ErrRetrievalFailed):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "RETRIEVAL_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
