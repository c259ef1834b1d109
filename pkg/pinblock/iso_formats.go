package pinblock

import (
	"fmt"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// ISO Format 0 (ANSI X9.8). Thales format 01.
// PIN field '0' + length + PIN + 'F' fill, XOR '0000' + 12 PAN digits.
func encodeISO0(pin, pan string) (string, error) {
	pinFieldStr := padRight(fmt.Sprintf("0%X%s", len(pin), pin), 16, 'F')

	return xorWithPAN(pinFieldStr, pan)
}

func decodeISO0(block []byte, pan string) (string, error) {
	clear, err := unxorPAN(block, pan)
	if err != nil {
		return "", err
	}

	return parsePinField(clear, ISO0, '0', isF)
}

// ISO Format 1. Thales format 05.
// PIN field '1' + length + PIN + transaction field fill, no PAN.
func encodeISO1(pin string, o *options) (string, error) {
	prefix := fmt.Sprintf("1%X%s", len(pin), pin)
	fill, err := fillDigits(o, 16-len(prefix), isHexUpper, hexAlphabet)
	if err != nil {
		return "", err
	}

	return prefix + fill, nil
}

func decodeISO1(block []byte) (string, error) {
	return parsePinField(cryptoutils.BytesToHex(block), ISO1, '1', isHexUpper)
}

// ISO Format 2. Thales format 34.
// PIN field '2' + length + PIN + 'F' fill, no PAN. Used for offline ICC PIN.
func encodeISO2(pin string) (string, error) {
	return padRight(fmt.Sprintf("2%X%s", len(pin), pin), 16, 'F'), nil
}

func decodeISO2(block []byte) (string, error) {
	return parsePinField(cryptoutils.BytesToHex(block), ISO2, '2', isF)
}

// ISO Format 3. Thales format 47.
// As format 0 with random fill digits A-F.
func encodeISO3(pin, pan string, o *options) (string, error) {
	prefix := fmt.Sprintf("3%X%s", len(pin), pin)
	fill, err := fillDigits(o, 16-len(prefix), isAF, afAlphabet)
	if err != nil {
		return "", err
	}

	return xorWithPAN(prefix+fill, pan)
}

func decodeISO3(block []byte, pan string) (string, error) {
	clear, err := unxorPAN(block, pan)
	if err != nil {
		return "", err
	}

	return parsePinField(clear, ISO3, '3', isAF)
}

// ISO Format 4 (AES). Thales format 48.
// Plain PIN field '4' + length + PIN + 'A' fill to 16 nibbles, then 16
// random nibbles.
func encodeISO4PinField(pin string, o *options) (string, error) {
	head := padRight(fmt.Sprintf("4%X%s", len(pin), pin), 16, 'A')
	tail, err := randomDigits(o.random, 16, hexAlphabet)
	if err != nil {
		return "", err
	}

	return head + tail, nil
}

func decodeISO4PinField(field []byte) (string, error) {
	nibbles := cryptoutils.BytesToHex(field)

	return parsePinField(nibbles[:16], ISO4, '4', isA)
}

// parsePinField validates the control nibble, the length nibble, the PIN
// digits and the fill of a clear PIN field given as uppercase hex.
func parsePinField(nibbles string, format Format, control byte, fillOK func(rune) bool) (string, error) {
	if nibbles[0] != control {
		return "", cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"%s control nibble is %c, expected %c",
			format,
			nibbles[0],
			control,
		)
	}

	pinLen := hexValue(nibbles[1])
	if pinLen < MinPINLength || pinLen > MaxPINLength {
		return "", cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"%s pin length nibble %c outside %d-%d",
			format,
			nibbles[1],
			MinPINLength,
			MaxPINLength,
		)
	}

	pin := nibbles[2 : 2+pinLen]
	for i, r := range pin {
		if r < '0' || r > '9' {
			return "", cryptoutils.Newf(
				cryptoutils.KindInvalidPinBlockFormat,
				"%s pin digit %d is %c",
				format,
				i+1,
				r,
			)
		}
	}

	for i, r := range nibbles[2+pinLen:] {
		if !fillOK(r) {
			return "", cryptoutils.Newf(
				cryptoutils.KindInvalidPinBlockFormat,
				"%s fill nibble at position %d is %c",
				format,
				2+pinLen+i,
				r,
			)
		}
	}

	return pin, nil
}

func xorWithPAN(pinFieldStr, pan string) (string, error) {
	pinField, err := cryptoutils.HexToBytes(pinFieldStr)
	if err != nil {
		return "", err
	}
	pf, err := panField(pan)
	if err != nil {
		return "", err
	}
	out, err := cryptoutils.XORBytes(pinField, pf)
	if err != nil {
		return "", err
	}

	return cryptoutils.BytesToHex(out), nil
}

func unxorPAN(block []byte, pan string) (string, error) {
	pf, err := panField(pan)
	if err != nil {
		return "", err
	}
	clear, err := cryptoutils.XORBytes(block, pf)
	if err != nil {
		return "", err
	}

	return cryptoutils.BytesToHex(clear), nil
}

func padRight(s string, n int, c byte) string {
	if len(s) >= n {
		return s
	}

	return s + strings.Repeat(string(c), n-len(s))
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

func isF(r rune) bool { return r == 'F' }

func isA(r rune) bool { return r == 'A' }

func isAF(r rune) bool { return r >= 'A' && r <= 'F' }

func isHexUpper(r rune) bool { return (r >= '0' && r <= '9') || isAF(r) }
