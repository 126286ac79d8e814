package models

import "fmt"

// ErrorKind identifies a category of domain error. Handlers map kinds to
// HTTP status codes; nothing in the codebase branches on error message text.
type ErrorKind string

const (
	KindInvalidID         ErrorKind = "invalid_id"
	KindProductNotFound   ErrorKind = "product_not_found"
	KindUserNotFound      ErrorKind = "user_not_found"
	KindTicketNotFound    ErrorKind = "ticket_not_found"
	KindItemNotFound      ErrorKind = "item_not_found"
	KindCartEmpty         ErrorKind = "cart_empty"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindNothingProcessed  ErrorKind = "nothing_processed"
	KindVersionConflict   ErrorKind = "version_conflict"
	KindDuplicateEmail    ErrorKind = "duplicate_email"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindInvalidInput      ErrorKind = "invalid_input"
)

// Error is a domain error tagged with a kind.
type Error struct {
	Kind    ErrorKind
	Message string

	// Available carries the current stock count for insufficient-stock errors.
	Available int

	wrapped error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is makes errors.Is match two domain errors of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates a domain error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a domain error that wraps an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, wrapped: err}
}

// NewInsufficientStockError creates an insufficient-stock error carrying the
// number of units currently available.
func NewInsufficientStockError(available int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("Insufficient stock. Available: %d", available),
		Available: available,
	}
}

// KindOf returns the kind of a domain error, or the empty string when err is
// not a domain error.
func KindOf(err error) ErrorKind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// IsKind reports whether err is (or wraps) a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// Common domain errors constructed in one place so services stay consistent.
var (
	ErrInvalidID        = NewError(KindInvalidID, "invalid id format")
	ErrProductNotFound  = NewError(KindProductNotFound, "product not found")
	ErrUserNotFound     = NewError(KindUserNotFound, "user not found")
	ErrTicketNotFound   = NewError(KindTicketNotFound, "ticket not found")
	ErrItemNotFound     = NewError(KindItemNotFound, "item not found in cart")
	ErrCartEmpty        = NewError(KindCartEmpty, "cart is empty")
	ErrNothingProcessed = NewError(KindNothingProcessed, "no items could be processed due to stock issues")
	ErrVersionConflict  = NewError(KindVersionConflict, "cart was modified concurrently")
	ErrDuplicateEmail   = NewError(KindDuplicateEmail, "email is already registered")
	ErrUnauthorized     = NewError(KindUnauthorized, "unauthorized access")
)
