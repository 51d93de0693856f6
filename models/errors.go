package models

import "fmt"

// Error codes used to classify failures at the per-product boundary.
const (
	ErrCodeConfig      = "CONFIG_ERROR"
	ErrCodeSession     = "SESSION_ERROR"
	ErrCodeNavTimeout  = "NAVIGATION_TIMEOUT"
	ErrCodeExtraction  = "EXTRACTION_FAILED"
	ErrCodePersistence = "PERSISTENCE_FAILED"
	ErrCodeNotify      = "NOTIFY_FAILED"
)

// WatchError is the internal error type carrying a failure code.
// It implements the error interface and supports wrapping via Unwrap.
type WatchError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *WatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WatchError) Unwrap() error {
	return e.Err
}

// NewWatchError creates a new WatchError.
func NewWatchError(code, message string, err error) *WatchError {
	return &WatchError{Code: code, Message: message, Err: err}
}
