// Package pinblock formats and parses clear ISO 9564-1 PIN blocks.
//
// Formats 0 to 3 produce an 8-byte block that is then enciphered with DES or
// TDES. Format 4 produces a 16-byte plain PIN field and a 16-byte PAN field
// which are combined during AES encipherment, not in the clear.
package pinblock

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// Format is an ISO 9564-1 PIN block format.
type Format int

// Supported PIN block formats.
const (
	ISO0 Format = iota // ISO 9564-1 Format 0 (ANSI X9.8).
	ISO1               // ISO 9564-1 Format 1.
	ISO2               // ISO 9564-1 Format 2.
	ISO3               // ISO 9564-1 Format 3.
	ISO4               // ISO 9564-1 Format 4 (AES).
)

// PIN length limits shared by every format.
const (
	MinPINLength = 4
	MaxPINLength = 12
)

// PAN length limits. Formats 0 and 3 need at least 13 digits so that 12
// digits remain after dropping the check digit.
const (
	minPANLength     = 13
	maxPANLength     = 19
	iso4MaxPANLength = 19
)

func (f Format) String() string {
	switch f {
	case ISO0:
		return "ISO-0"
	case ISO1:
		return "ISO-1"
	case ISO2:
		return "ISO-2"
	case ISO3:
		return "ISO-3"
	case ISO4:
		return "ISO-4"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// BlockSize returns the clear block length in bytes: 8, or 16 for format 4.
func (f Format) BlockSize() int {
	if f == ISO4 {
		return 16
	}

	return 8
}

// UsesPAN reports whether the format binds the block to an account number.
func (f Format) UsesPAN() bool {
	return f == ISO0 || f == ISO3 || f == ISO4
}

// ParseFormat accepts "0".."4", "iso0", "ISO-3", "iso 4" and Thales codes.
func ParseFormat(name string) (Format, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if f, err := FormatFromCode(s); err == nil {
		return f, nil
	}
	s = strings.NewReplacer("ISO", "", "-", "", " ", "", "_", "").Replace(s)
	switch s {
	case "0":
		return ISO0, nil
	case "1":
		return ISO1, nil
	case "2":
		return ISO2, nil
	case "3":
		return ISO3, nil
	case "4":
		return ISO4, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported pin block format %q", name)
	}
}

type options struct {
	fill   string
	random io.Reader
}

// Option customizes how fill digits are produced.
type Option func(*options)

// WithFill supplies the fill digits after the PIN. For format 1 this is the
// transaction-unique field; format 3 requires digits A-F. The fill must be
// exactly 14 - len(pin) digits.
func WithFill(hexDigits string) Option {
	return func(o *options) {
		o.fill = strings.ToUpper(hexDigits)
	}
}

// WithRandom sets the source of random fill digits. Default is crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.random = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{random: rand.Reader}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Encode builds the clear PIN block for pin and pan as uppercase hex.
// For format 4 the result is the 16-byte plain PIN field.
func Encode(pin, pan string, format Format, opts ...Option) (string, error) {
	if err := validatePIN(pin); err != nil {
		return "", err
	}
	o := newOptions(opts)

	switch format {
	case ISO0:
		return encodeISO0(pin, pan)
	case ISO1:
		return encodeISO1(pin, o)
	case ISO2:
		return encodeISO2(pin)
	case ISO3:
		return encodeISO3(pin, pan, o)
	case ISO4:
		if _, err := iso4PANField(pan); err != nil {
			return "", err
		}

		return encodeISO4PinField(pin, o)
	default:
		return "", cryptoutils.Newf(cryptoutils.KindInvalidPinBlockFormat, "unsupported format %s", format)
	}
}

// Decode extracts the PIN from a clear PIN block. pan is ignored by formats
// that do not use it. For format 4 blockHex is the deciphered plain PIN field.
func Decode(blockHex, pan string, format Format) (string, error) {
	block, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(blockHex))
	if err != nil {
		return "", fmt.Errorf("pin block: %w", err)
	}
	if format < ISO0 || format > ISO4 {
		return "", cryptoutils.Newf(cryptoutils.KindInvalidPinBlockFormat, "unsupported format %s", format)
	}
	if len(block) != format.BlockSize() {
		return "", cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"%s pin block must be %d bytes, got %d",
			format,
			format.BlockSize(),
			len(block),
		)
	}

	switch format {
	case ISO0:
		return decodeISO0(block, pan)
	case ISO1:
		return decodeISO1(block)
	case ISO2:
		return decodeISO2(block)
	case ISO3:
		return decodeISO3(block, pan)
	default:
		if _, err := iso4PANField(pan); err != nil {
			return "", err
		}

		return decodeISO4PinField(block)
	}
}

// PANField returns the account number field XORed with the PIN field:
// 8 bytes for formats 0 and 3, 16 bytes for format 4. Formats without a
// PAN return an all-zero block.
func PANField(pan string, format Format) ([]byte, error) {
	switch format {
	case ISO0, ISO3:
		return panField(pan)
	case ISO4:
		return iso4PANField(pan)
	case ISO1, ISO2:
		return make([]byte, format.BlockSize()), nil
	default:
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidPinBlockFormat, "unsupported format %s", format)
	}
}

// EncodeISO4Fields returns the plain PIN field and the PAN field of a
// format 4 block. The caller enciphers them as E(K, E(K, pin) XOR pan).
func EncodeISO4Fields(pin, pan string, opts ...Option) ([]byte, []byte, error) {
	fieldHex, err := Encode(pin, pan, ISO4, opts...)
	if err != nil {
		return nil, nil, err
	}
	pinField, err := cryptoutils.HexToBytes(fieldHex)
	if err != nil {
		return nil, nil, err
	}
	panBlock, err := iso4PANField(pan)
	if err != nil {
		return nil, nil, err
	}

	return pinField, panBlock, nil
}

// DecodeISO4Field extracts the PIN from a deciphered format 4 plain PIN field.
func DecodeISO4Field(pinField []byte) (string, error) {
	if len(pinField) != ISO4.BlockSize() {
		return "", cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"%s pin field must be %d bytes, got %d",
			ISO4,
			ISO4.BlockSize(),
			len(pinField),
		)
	}

	return decodeISO4PinField(pinField)
}
