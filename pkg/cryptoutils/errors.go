package cryptoutils

import (
	"errors"
	"fmt"
)

// Kind classifies a calculator failure. All kinds are input validation
// failures; none of them is transient.
type Kind string

// Supported error kinds.
const (
	KindInvalidEncoding         Kind = "InvalidEncoding"
	KindInvalidKeyLength        Kind = "InvalidKeyLength"
	KindInvalidBlockAlignment   Kind = "InvalidBlockAlignment"
	KindInvalidIV               Kind = "InvalidIV"
	KindInvalidPadding          Kind = "InvalidPadding"
	KindInvalidPinBlockFormat   Kind = "InvalidPinBlockFormat"
	KindInvalidKeyConfiguration Kind = "InvalidKeyConfiguration"
	KindInvalidArgument         Kind = "InvalidArgument"
)

// Sentinel values for errors.Is matching. A detailed error matches the
// sentinel of the same kind.
var (
	ErrInvalidEncoding         = &Error{Kind: KindInvalidEncoding}
	ErrInvalidKeyLength        = &Error{Kind: KindInvalidKeyLength}
	ErrInvalidBlockAlignment   = &Error{Kind: KindInvalidBlockAlignment}
	ErrInvalidIV               = &Error{Kind: KindInvalidIV}
	ErrInvalidPadding          = &Error{Kind: KindInvalidPadding}
	ErrInvalidPinBlockFormat   = &Error{Kind: KindInvalidPinBlockFormat}
	ErrInvalidKeyConfiguration = &Error{Kind: KindInvalidKeyConfiguration}
	ErrInvalidArgument         = &Error{Kind: KindInvalidArgument}
)

// Error is a calculator failure with its kind and a detail message
// suitable for display (expected vs actual length, offending field).
type Error struct {
	Kind   Kind
	Detail string
}

// Error implements the error interface: "<Kind>: <Detail>".
func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.Detail
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// Newf returns an *Error of the given kind with a formatted detail.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
