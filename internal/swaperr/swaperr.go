package swaperr

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable error kind surfaced to callers.
// Validation and quoting return these as values; nothing in the engine
// panics or throws.
type Kind string

const (
	KindAssetNotSupported    Kind = "ASSET_NOT_SUPPORTED"
	KindAmountCannotBeZero   Kind = "AMOUNT_CANNOT_BE_ZERO"
	KindSwapExceedAllowance  Kind = "SWAP_EXCEED_ALLOWANCE"
	KindSwapNotEnoughBalance Kind = "SWAP_NOT_ENOUGH_BALANCE"
	KindNotEnoughBalance     Kind = "NOT_ENOUGH_BALANCE"
	KindQuoteTimeout         Kind = "QUOTE_TIMEOUT"
	KindInvalidRecipient     Kind = "INVALID_RECIPIENT"
	KindErrorFetchingQuote   Kind = "ERROR_FETCHING_QUOTE"
	KindInternalError        Kind = "INTERNAL_ERROR"
	KindUnknown              Kind = "UNKNOWN"
)

// Error is a typed engine error carrying a stable kind. Amount-related
// errors put a pre-formatted decimal value into Metadata so callers can
// render them without knowing asset decimals.
type Error struct {
	Kind     Kind
	Message  string
	Cause    error
	Metadata map[string]string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithMeta attaches a metadata entry and returns the same error.
func (e *Error) WithMeta(key, value string) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string, 1)
	}
	e.Metadata[key] = value
	return e
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf extracts the kind of err, mapping untyped errors to UNKNOWN.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if typed, ok := As(err); ok {
		return typed.Kind
	}
	return KindUnknown
}
