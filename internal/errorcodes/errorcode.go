// Package errorcodes defines host command errors using a structured type.
// HSMError holds the two-character code and human-readable description.
package errorcodes

import (
	"errors"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// Predefined host error instances.
var (
	Err00 = HSMError{"00", "No error"}
	Err02 = HSMError{"02", "Key inappropriate length for algorithm"}
	Err15 = HSMError{
		"15",
		"Invalid input data (invalid format, invalid characters, or not enough data provided)",
	}
	Err20 = HSMError{"20", "PIN block does not contain valid values"}
	Err23 = HSMError{"23", "Invalid PIN block format code"}
	Err27 = HSMError{"27", "Incompatible key length"}
	Err41 = HSMError{"41", "Internal hardware/software error: bad RAM, invalid error codes, etc."}
	Err68 = HSMError{"68", "Command has been disabled"}
	Err77 = HSMError{"77", "Clear data block error"}
	Err80 = HSMError{"80", "Data length error"}
)

// HSMError represents a host error with its code and description.
type HSMError struct {
	Code        string // two-character error code
	Description string // human-readable description
}

// Error implements the Go error interface: "<Code>: <Description>".
func (e HSMError) Error() string {
	return e.Code + ": " + e.Description
}

// CodeOnly returns only the error code (e.g., "68"), for embedding in responses.
func (e HSMError) CodeOnly() string {
	return e.Code
}

var kindCodes = map[cryptoutils.Kind]HSMError{
	cryptoutils.KindInvalidEncoding:         Err15,
	cryptoutils.KindInvalidKeyLength:        Err02,
	cryptoutils.KindInvalidBlockAlignment:   Err80,
	cryptoutils.KindInvalidIV:               Err15,
	cryptoutils.KindInvalidPadding:          Err77,
	cryptoutils.KindInvalidPinBlockFormat:   Err20,
	cryptoutils.KindInvalidKeyConfiguration: Err27,
	cryptoutils.KindInvalidArgument:         Err15,
}

// FromError maps err to the host error returned on the wire. An HSMError in
// the chain wins; calculator errors map by kind; anything else is Err41.
func FromError(err error) HSMError {
	if err == nil {
		return Err00
	}

	var hsmErr HSMError
	if errors.As(err, &hsmErr) {
		return hsmErr
	}

	if code, ok := kindCodes[cryptoutils.KindOf(err)]; ok {
		return code
	}

	return Err41
}
