package core

import (
	"errors"
	"fmt"
)

// Error kinds returned by order placement and the admin operations.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInactive          = errors.New("product is inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPersistence       = errors.New("persistence failure")
)

// ErrUnsupportedFormat is returned for import files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// classify passes the domain error kinds through and wraps anything
// else the store returned as a persistence failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrInvalidInput, ErrNotFound, ErrInactive, ErrInsufficientStock, ErrPersistence} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// Reason strips the error kind prefix so the message reads well on its own.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range []error{ErrInvalidInput, ErrPersistence} {
		prefix := kind.Error() + ": "
		if errors.Is(err, kind) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
