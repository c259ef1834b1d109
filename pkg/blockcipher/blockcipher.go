// Package blockcipher builds single-block DES, TDES and AES primitives from
// raw key bytes.
package blockcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"fmt"
	"slices"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// Algorithm is the closed set of supported block ciphers.
type Algorithm int

// Supported algorithms.
const (
	DES Algorithm = iota + 1
	TDES
	AES
)

var (
	desKeyLengths  = []int{cryptoutils.KEY_LENGTH_SINGLE}
	tdesKeyLengths = []int{
		cryptoutils.KEY_LENGTH_SINGLE,
		cryptoutils.KEY_LENGTH_DOUBLE,
		cryptoutils.KEY_LENGTH_TRIPLE,
	}
	aesKeyLengths = []int{16, 24, 32}
)

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	switch a {
	case DES:
		return "DES"
	case TDES:
		return "TDES"
	case AES:
		return "AES"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
// Accepted names: DES, TDES, 3DES, TDEA, AES and the one-letter codes D, T, A.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DES", "D":
		return DES, nil
	case "TDES", "3DES", "TDEA", "T":
		return TDES, nil
	case "AES", "A":
		return AES, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported algorithm %q", name)
	}
}

// BlockSize returns the block size in bytes, or 0 for an unknown algorithm.
func BlockSize(alg Algorithm) int {
	switch alg {
	case DES, TDES:
		return des.BlockSize
	case AES:
		return aes.BlockSize
	default:
		return 0
	}
}

// ValidKeyLengths returns the accepted key lengths in bytes.
func ValidKeyLengths(alg Algorithm) []int {
	switch alg {
	case DES:
		return slices.Clone(desKeyLengths)
	case TDES:
		return slices.Clone(tdesKeyLengths)
	case AES:
		return slices.Clone(aesKeyLengths)
	default:
		return nil
	}
}

// ValidateKey checks the key length against the algorithm's valid set.
func ValidateKey(alg Algorithm, key []byte) error {
	valid := ValidKeyLengths(alg)
	if valid == nil {
		return cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported algorithm %s", alg)
	}
	if !slices.Contains(valid, len(key)) {
		return cryptoutils.Newf(
			cryptoutils.KindInvalidKeyLength,
			"%s key must be one of %v bytes, got %d",
			alg,
			valid,
			len(key),
		)
	}

	return nil
}

// New returns a cipher.Block for alg keyed with key.
// TDES is EDE: a 16-byte key K1K2 runs as K1K2K1 and an 8-byte key as K1K1K1,
// which is bit-identical to single DES.
func New(alg Algorithm, key []byte) (cipher.Block, error) {
	if err := ValidateKey(alg, key); err != nil {
		return nil, err
	}

	var (
		block cipher.Block
		err   error
	)
	switch alg {
	case DES:
		block, err = des.NewCipher(key)
	case TDES:
		block, err = des.NewTripleDESCipher(cryptoutils.PrepareTripleDESKey(key))
	case AES:
		block, err = aes.NewCipher(key)
	}
	if err != nil {
		return nil, fmt.Errorf("%s cipher init failed: %w", alg, err)
	}

	return block, nil
}

// EncryptBlock encrypts exactly one block and returns a new buffer.
func EncryptBlock(alg Algorithm, key, src []byte) ([]byte, error) {
	return crypt(alg, key, src, true)
}

// DecryptBlock decrypts exactly one block and returns a new buffer.
func DecryptBlock(alg Algorithm, key, src []byte) ([]byte, error) {
	return crypt(alg, key, src, false)
}

func crypt(alg Algorithm, key, src []byte, encrypt bool) ([]byte, error) {
	block, err := New(alg, key)
	if err != nil {
		return nil, err
	}
	if len(src) != block.BlockSize() {
		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidBlockAlignment,
			"%s block must be %d bytes, got %d",
			alg,
			block.BlockSize(),
			len(src),
		)
	}

	dst := make([]byte, len(src))
	if encrypt {
		block.Encrypt(dst, src)
	} else {
		block.Decrypt(dst, src)
	}

	return dst, nil
}
