// Package mac computes ISO/IEC 9797-1 message authentication codes:
// algorithm 1 (CBC-MAC), algorithm 3 (retail MAC) and algorithm 5 (AES-CMAC).
package mac

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/modes"
)

// Algorithm is an ISO/IEC 9797-1 MAC algorithm number.
type Algorithm int

// Supported MAC algorithms.
const (
	Alg1 Algorithm = 1
	Alg3 Algorithm = 3
	Alg5 Algorithm = 5
)

// PadMethod is an ISO/IEC 9797-1 padding method.
type PadMethod int

// Supported padding methods.
const (
	// PadMethod1 right-pads with zero bytes; empty input becomes one zero block.
	PadMethod1 PadMethod = 1
	// PadMethod2 appends 0x80 then zero bytes.
	PadMethod2 PadMethod = 2
)

// Tag length bounds in bytes. The upper bound is the block size.
const (
	MinTagLength     = 4
	DefaultTagLength = 8
)

func (a Algorithm) String() string {
	switch a {
	case Alg1:
		return "ISO9797-1 Alg 1"
	case Alg3:
		return "ISO9797-1 Alg 3"
	case Alg5:
		return "ISO9797-1 Alg 5 (CMAC)"
	default:
		return "unknown"
	}
}

// ParseAlgorithm accepts "1", "3", "5", "alg1", "retail", "cmac" and similar.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "1", "alg1", "cbc-mac", "cbcmac":
		return Alg1, nil
	case "3", "alg3", "retail", "x9.19":
		return Alg3, nil
	case "5", "alg5", "cmac", "aes-cmac":
		return Alg5, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported MAC algorithm %q", name)
	}
}

// ParsePadMethod accepts "1"/"zeros" and "2"/"m2".
func ParsePadMethod(name string) (PadMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "1", "zeros", "zero", "m1":
		return PadMethod1, nil
	case "2", "m2", "iso9797-m2":
		return PadMethod2, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported MAC padding %q", name)
	}
}

// BlockSize returns the cipher block size used by alg, or 0 if unknown.
func (a Algorithm) BlockSize() int {
	switch a {
	case Alg1, Alg3:
		return des.BlockSize
	case Alg5:
		return blockcipher.BlockSize(blockcipher.AES)
	default:
		return 0
	}
}

// Compute returns the leftmost tagLength bytes of the MAC of data.
//
// Algorithm 1 runs CBC-MAC with a zero IV under the whole key: DES for an
// 8-byte key, TDES for 16 or 24 bytes. Algorithm 3 runs CBC-MAC under K1 and
// transforms the final block with D(K2) then E(K1); the key must be 16 bytes
// with K1 != K2. Algorithm 5 is AES-CMAC and ignores pad.
func Compute(alg Algorithm, key, data []byte, tagLength int, pad PadMethod) ([]byte, error) {
	bs := alg.BlockSize()
	if bs == 0 {
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported MAC algorithm %d", int(alg))
	}
	if tagLength < MinTagLength || tagLength > bs {
		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidArgument,
			"tag length must be %d..%d bytes, got %d",
			MinTagLength,
			bs,
			tagLength,
		)
	}

	var (
		full []byte
		err  error
	)
	switch alg {
	case Alg1:
		full, err = alg1(key, data, pad)
	case Alg3:
		full, err = alg3(key, data, pad)
	case Alg5:
		full, err = CMAC(key, data)
	}
	if err != nil {
		return nil, err
	}

	return full[:tagLength], nil
}

func alg1(key, data []byte, pad PadMethod) ([]byte, error) {
	cipherAlg := blockcipher.TDES
	if len(key) == cryptoutils.KEY_LENGTH_SINGLE {
		cipherAlg = blockcipher.DES
	}
	block, err := blockcipher.New(cipherAlg, key)
	if err != nil {
		return nil, err
	}

	return cbcMAC(block, data, pad)
}

func alg3(key, data []byte, pad PadMethod) ([]byte, error) {
	if len(key) != cryptoutils.KEY_LENGTH_DOUBLE {
		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidKeyConfiguration,
			"retail MAC needs a 16-byte K1||K2 key, got %d bytes",
			len(key),
		)
	}
	halves := cryptoutils.Chunk(key, cryptoutils.KEY_LENGTH_SINGLE)
	k1, k2 := halves[0], halves[1]
	if bytes.Equal(k1, k2) {
		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidKeyConfiguration,
			"retail MAC key halves must differ",
		)
	}

	c1, err := blockcipher.New(blockcipher.DES, k1)
	if err != nil {
		return nil, err
	}
	c2, err := blockcipher.New(blockcipher.DES, k2)
	if err != nil {
		return nil, err
	}

	h, err := cbcMAC(c1, data, pad)
	if err != nil {
		return nil, err
	}
	c2.Decrypt(h, h)
	c1.Encrypt(h, h)

	return h, nil
}

func cbcMAC(block cipher.Block, data []byte, pad PadMethod) ([]byte, error) {
	padded, err := padMAC(data, block.BlockSize(), pad)
	if err != nil {
		return nil, err
	}

	ct, err := modes.Encrypt(block, modes.CBC, make([]byte, block.BlockSize()), padded, modes.PaddingNone)
	if err != nil {
		return nil, err
	}

	return ct[len(ct)-block.BlockSize():], nil
}

// padMAC applies ISO/IEC 9797-1 padding method 1 or 2.
func padMAC(data []byte, bs int, pad PadMethod) ([]byte, error) {
	switch pad {
	case PadMethod1:
		n := len(data)
		if n == 0 || n%bs != 0 {
			n += bs - n%bs
		}
		out := make([]byte, n)
		copy(out, data)

		return out, nil
	case PadMethod2:
		return modes.Pad(data, bs, modes.PaddingISO9797M2)
	default:
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported MAC padding %d", int(pad))
	}
}
