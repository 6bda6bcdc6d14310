package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPayload       = errors.New("invalid payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrMissingIdentifier    = errors.New("missing record id")
	ErrStore                = errors.New("record store failure")
	ErrUpstreamService      = errors.New("text completion service failure")
	ErrNoDocument           = errors.New("working document is empty")
	ErrUnknownTable         = errors.New("unknown table")
	ErrUnknownOperation     = errors.New("unknown operation")
)

// PayloadError reports structured data that could not be used as records.
type PayloadError struct {
	Detail string
}

func (e *PayloadError) Error() string {
	return "invalid payload: " + e.Detail
}

func (e *PayloadError) Unwrap() error { return ErrInvalidPayload }

// MissingFieldsError lists the fields an insert or update still needs.
type MissingFieldsError struct {
	Table  string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("missing required fields for %s: %s", e.Table, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingRequiredField }

// StoreError wraps a backend failure with the operation it interrupted.
type StoreError struct {
	Op  Operation
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// Kind names the error category for API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoDocument):
		return "no_document"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrMissingIdentifier):
		return "missing_identifier"
	case errors.Is(err, ErrMissingRequiredField):
		return "missing_required_field"
	case errors.Is(err, ErrStore):
		return "store_error"
	case errors.Is(err, ErrUpstreamService):
		return "upstream_service_error"
	case errors.Is(err, ErrUnknownTable):
		return "unknown_table"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	default:
		return "internal"
	}
}
