// Package kcv computes key check values: the leading hex digits of a
// known block enciphered under the key.
package kcv

import (
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/mac"
)

// Method selects the block that is enciphered.
type Method int

// Supported check value methods.
const (
	// ZeroBlock enciphers one all-zero block in ECB.
	ZeroBlock Method = iota
	// ASCIIZeros enciphers the ASCII characters "0000..." (0x30 bytes).
	ASCIIZeros
	// CMAC takes the AES-CMAC of one zero block. AES keys only.
	CMAC
)

// DefaultDigits is the conventional six-hex-digit check value.
const DefaultDigits = 6

func (m Method) String() string {
	switch m {
	case ZeroBlock:
		return "zero"
	case ASCIIZeros:
		return "ascii"
	case CMAC:
		return "cmac"
	default:
		return "unknown"
	}
}

// ParseMethod maps "zero", "ascii" or "cmac" (case-insensitive) to a Method.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zero", "zeros", "zeroblock":
		return ZeroBlock, nil
	case "ascii", "asciizeros", "ascii-zeros":
		return ASCIIZeros, nil
	case "cmac":
		return CMAC, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported KCV method %q", name)
	}
}

// Compute returns the first digits uppercase hex characters of the check
// value of key. digits must be between 1 and twice the block size.
func Compute(alg blockcipher.Algorithm, key []byte, digits int, method Method) (string, error) {
	bs := blockcipher.BlockSize(alg)
	if bs == 0 {
		return "", cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported algorithm %s", alg)
	}
	if digits < 1 || digits > 2*bs {
		return "", cryptoutils.Newf(
			cryptoutils.KindInvalidArgument,
			"check value digits must be 1..%d, got %d",
			2*bs,
			digits,
		)
	}

	var (
		out []byte
		err error
	)
	switch method {
	case ZeroBlock:
		out, err = blockcipher.EncryptBlock(alg, key, make([]byte, bs))
	case ASCIIZeros:
		out, err = blockcipher.EncryptBlock(alg, key, []byte(strings.Repeat("0", bs)))
	case CMAC:
		if alg != blockcipher.AES {
			return "", cryptoutils.Newf(cryptoutils.KindInvalidArgument, "CMAC check value needs an AES key, got %s", alg)
		}
		out, err = mac.CMAC(key, make([]byte, bs))
	default:
		return "", cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported KCV method %d", int(method))
	}
	if err != nil {
		return "", err
	}

	return cryptoutils.BytesToHex(out)[:digits], nil
}
