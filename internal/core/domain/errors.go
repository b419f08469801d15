package domain

import "errors"

// Common domain errors
var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Client errors
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrTaxIDAlreadyExists = errors.New("tax id already registered")
	ErrClientInactive     = errors.New("client is inactive")
)

// Payment errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
)

// Bill errors
var (
	ErrBillNotFound    = errors.New("bill not found")
	ErrBillAlreadyPaid = errors.New("bill already paid")
)

// Notice errors
var (
	ErrMailerDisabled = errors.New("mail sender not configured")
	ErrNoticeDelivery = errors.New("notice delivery failed")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for field
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
