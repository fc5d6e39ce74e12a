package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeAutomation represents browser-automation failures (timeouts, non-zero tool exit)
	ErrorTypeAutomation ErrorType = "automation"
	// ErrorTypeExtraction represents pages that loaded but yielded no usable data
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeStorage represents persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// TrackerError represents a pipeline-specific error
type TrackerError struct {
	Type    ErrorType
	Product string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Product, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Product, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether the run may continue past this error.
// Automation and extraction failures stay inside the per-product boundary.
func (e *TrackerError) IsRecoverable() bool {
	switch e.Type {
	case ErrorTypeAutomation, ErrorTypeExtraction, ErrorTypePublisher:
		return true
	default:
		return false
	}
}

// New creates a new TrackerError
func New(errType ErrorType, product, message string, err error) *TrackerError {
	return &TrackerError{
		Type:    errType,
		Product: product,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewAutomation creates a new browser-automation error
func NewAutomation(product, message string, err error) *TrackerError {
	return New(ErrorTypeAutomation, product, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(product, message string) *TrackerError {
	return New(ErrorTypeExtraction, product, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(product, message string, err error) *TrackerError {
	return New(ErrorTypeStorage, product, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(product, message string, err error) *TrackerError {
	return New(ErrorTypePublisher, product, message, err)
}

// NewValidation creates a new validation error
func NewValidation(product, message string) *TrackerError {
	return New(ErrorTypeValidation, product, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *TrackerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// Truncate shortens an error message for storage alongside a check row.
func Truncate(err error, limit int) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > limit {
		return msg[:limit]
	}
	return msg
}
