package pinblock

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

const (
	hexAlphabet = "0123456789ABCDEF"
	afAlphabet  = "ABCDEF"
)

func validatePIN(pin string) error {
	if len(pin) < MinPINLength || len(pin) > MaxPINLength {
		return cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"pin must be %d-%d digits, got %d",
			MinPINLength,
			MaxPINLength,
			len(pin),
		)
	}
	if !isDigits(pin) {
		return cryptoutils.Newf(cryptoutils.KindInvalidPinBlockFormat, "pin contains non-digit characters")
	}

	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// panField builds '0000' + the rightmost 12 PAN digits excluding the check digit.
func panField(pan string) ([]byte, error) {
	if len(pan) < minPANLength || len(pan) > maxPANLength {
		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"pan must be %d-%d digits, got %d",
			minPANLength,
			maxPANLength,
			len(pan),
		)
	}
	if !isDigits(pan) {
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidPinBlockFormat, "pan contains non-digit characters")
	}

	withoutCheck := pan[:len(pan)-1]

	return cryptoutils.HexToBytes("0000" + withoutCheck[len(withoutCheck)-12:])
}

// iso4PANField builds the 16-byte format 4 PAN field: a length nibble
// (PAN length - 12) followed by the PAN, left-padded with zeros to 12 digits
// and right-padded with zeros to 32 nibbles.
func iso4PANField(pan string) ([]byte, error) {
	if pan == "" || len(pan) > iso4MaxPANLength {
		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"pan must be 1-%d digits, got %d",
			iso4MaxPANLength,
			len(pan),
		)
	}
	if !isDigits(pan) {
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidPinBlockFormat, "pan contains non-digit characters")
	}

	m := max(len(pan)-12, 0)
	if len(pan) < 12 {
		pan = strings.Repeat("0", 12-len(pan)) + pan
	}

	return cryptoutils.HexToBytes(padRight(fmt.Sprintf("%d%s", m, pan), 32, '0'))
}

// fillDigits returns n fill digits from WithFill, or random ones from alphabet.
func fillDigits(o *options, n int, valid func(rune) bool, alphabet string) (string, error) {
	if o.fill == "" {
		return randomDigits(o.random, n, alphabet)
	}
	if len(o.fill) != n {
		return "", cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"fill needs %d digits, got %d",
			n,
			len(o.fill),
		)
	}
	for i, r := range o.fill {
		if !valid(r) {
			return "", cryptoutils.Newf(
				cryptoutils.KindInvalidPinBlockFormat,
				"fill digit %d is %c, expected one of %s",
				i+1,
				r,
				alphabet,
			)
		}
	}

	return o.fill, nil
}

// randomDigits draws n characters from alphabet using r. Bytes at or above
// the largest multiple of len(alphabet) are discarded so every character is
// equally likely.
func randomDigits(r io.Reader, n int, alphabet string) (string, error) {
	if n <= 0 {
		return "", nil
	}
	limit := 256 - 256%len(alphabet)

	var sb strings.Builder
	sb.Grow(n)
	buf := make([]byte, n)
	for sb.Len() < n {
		buf = buf[:n-sb.Len()]
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("failed to generate random fill: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			sb.WriteByte(alphabet[int(b)%len(alphabet)])
		}
	}

	return sb.String(), nil
}
