// Package cryptoutils provides the hex codec, byte helpers and the error
// taxonomy shared by the calculator packages.
package cryptoutils

import (
	"encoding/hex"
	"math/bits"
	"strings"
	"unicode"
)

const (
	KEY_LENGTH_SINGLE = 8
	KEY_LENGTH_DOUBLE = 16
	KEY_LENGTH_TRIPLE = 24
)

// Raw2Str converts raw binary data to an uppercase hex string.
func Raw2Str(raw []byte) string {
	return strings.ToUpper(hex.EncodeToString(raw))
}

// HexToBytes decodes an even-length hex string of either case.
// Odd length or a non-hex character fails with InvalidEncoding.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, Newf(KindInvalidEncoding, "hex string has odd length %d", len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return nil, Newf(KindInvalidEncoding, "non-hex character %q at position %d", s[i], i)
		}
	}

	out := make([]byte, len(s)/2)
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return nil, Newf(KindInvalidEncoding, "%v", err)
	}

	return out, nil
}

// BytesToHex encodes b as uppercase hex, two digits per byte.
func BytesToHex(b []byte) string {
	return Raw2Str(b)
}

// NormalizeHex validates s and returns it uppercased.
func NormalizeHex(s string) (string, error) {
	raw, err := HexToBytes(s)
	if err != nil {
		return "", err
	}

	return BytesToHex(raw), nil
}

// StripSpaces removes whitespace used to group hex digits ("0123 4567").
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// PrepareTripleDESKey extends a single or double length key to triple length
// (K1K1K1 or K1K2K1). Other lengths are returned as a copy.
func PrepareTripleDESKey(key []byte) []byte {
	key24 := make([]byte, KEY_LENGTH_TRIPLE)
	switch len(key) {
	case KEY_LENGTH_SINGLE:
		copy(key24, key)
		copy(key24[KEY_LENGTH_SINGLE:], key)
		copy(key24[KEY_LENGTH_DOUBLE:], key)
	case KEY_LENGTH_DOUBLE:
		copy(key24, key)
		copy(key24[KEY_LENGTH_DOUBLE:], key[:KEY_LENGTH_SINGLE])
	default:
		key24 = append([]byte(nil), key...)
	}

	return key24
}

// XORBytes returns a^b for equal-length slices in a new buffer.
func XORBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, Newf(KindInvalidArgument, "xor: length mismatch %d vs %d", len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out, nil
}

// Chunk splits b into blocks of size sz. The last block may be shorter if needed.
func Chunk(b []byte, sz int) [][]byte {
	if sz <= 0 {
		return nil
	}
	n := (len(b) + sz - 1) / sz
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		start := i * sz
		end := min(start+sz, len(b))
		out[i] = b[start:end]
	}

	return out
}

// oddParity reports whether b has an odd number of set bits.
func oddParity(b byte) bool {
	return bits.OnesCount8(b)%2 == 1
}

// CheckKeyParity reports whether every byte of key has odd parity, the DES
// convention for the low bit of each key byte.
func CheckKeyParity(key []byte) bool {
	for _, b := range key {
		if !oddParity(b) {
			return false
		}
	}

	return true
}

// FixKeyParity returns a copy of key with the low bit of each byte adjusted
// to give odd parity.
func FixKeyParity(key []byte) []byte {
	out := make([]byte, len(key))
	for i, b := range key {
		if oddParity(b) {
			out[i] = b
		} else {
			out[i] = b ^ 0x01
		}
	}

	return out
}
