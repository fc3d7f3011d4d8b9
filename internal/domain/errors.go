package domain

import "fmt"

// Error types for consistent error handling across the BFF.
// Malformed upstream fields are never errors (the normalizer absorbs
// them); these cover the failures that do cross layer boundaries.

// ErrNotFound indicates a resource was not found (e.g. no data for a month).
type ErrNotFound struct {
	Resource string
	Month    string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found for month %s", e.Resource, e.Month)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrMonthMismatch is the distinguished ingestion failure: the uploaded
// documents belong to months other than the one requested. It is passed
// through unreinterpreted so callers can render the detected months
// next to the requested one.
type ErrMonthMismatch struct {
	Requested  string
	SalesMonth string
	BankMonth  string
}

func (e *ErrMonthMismatch) Error() string {
	return fmt.Sprintf("month mismatch: requested %s, sales document has %s, bank document has %s",
		e.Requested, e.SalesMonth, e.BankMonth)
}

// ErrChatBusy indicates a Send was attempted while another one is
// still in flight. Concurrent sends are rejected, not queued.
type ErrChatBusy struct{}

func (e *ErrChatBusy) Error() string {
	return "chat: a question is already in flight"
}
