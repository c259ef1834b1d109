package engine

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/pinblock"
)

// FormatPinBlock returns the clear PIN block. For format 4 this is the plain
// PIN field that is enciphered first.
func FormatPinBlock(format pinblock.Format, pin, pan string, opts ...pinblock.Option) ([]byte, error) {
	blockHex, err := pinblock.Encode(pin, pan, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("format pin block: %w", err)
	}

	return cryptoutils.HexToBytes(blockHex)
}

// ParsePinBlock extracts the PIN from a clear PIN block.
func ParsePinBlock(format pinblock.Format, block []byte, pan string) (string, error) {
	pin, err := pinblock.Decode(cryptoutils.BytesToHex(block), pan, format)
	if err != nil {
		return "", fmt.Errorf("parse pin block: %w", err)
	}

	return pin, nil
}

// EncryptPinBlock formats and enciphers a PIN block. Formats 0 to 3 take a
// DES or TDES key and one ECB block; format 4 takes an AES key and is
// enciphered as E(K, E(K, PIN field) XOR PAN field).
func EncryptPinBlock(
	alg blockcipher.Algorithm,
	key []byte,
	format pinblock.Format,
	pin, pan string,
	opts ...pinblock.Option,
) ([]byte, error) {
	if err := checkPinBlockAlgorithm(alg, format); err != nil {
		return nil, fmt.Errorf("encrypt pin block: %w", err)
	}

	if format != pinblock.ISO4 {
		clear, err := FormatPinBlock(format, pin, pan, opts...)
		if err != nil {
			return nil, err
		}
		out, err := blockcipher.EncryptBlock(alg, key, clear)
		if err != nil {
			return nil, fmt.Errorf("encrypt pin block: %w", err)
		}

		return out, nil
	}

	pinField, panField, err := pinblock.EncodeISO4Fields(pin, pan, opts...)
	if err != nil {
		return nil, fmt.Errorf("encrypt pin block: %w", err)
	}
	c, err := blockcipher.New(alg, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt pin block: %w", err)
	}

	out := make([]byte, len(pinField))
	c.Encrypt(out, pinField)
	for i := range out {
		out[i] ^= panField[i]
	}
	c.Encrypt(out, out)

	return out, nil
}

// DecryptPinBlock deciphers a PIN block and extracts the PIN.
func DecryptPinBlock(
	alg blockcipher.Algorithm,
	key []byte,
	format pinblock.Format,
	block []byte,
	pan string,
) (string, error) {
	if err := checkPinBlockAlgorithm(alg, format); err != nil {
		return "", fmt.Errorf("decrypt pin block: %w", err)
	}
	if len(block) != format.BlockSize() {
		return "", fmt.Errorf("decrypt pin block: %w", cryptoutils.Newf(
			cryptoutils.KindInvalidPinBlockFormat,
			"%s pin block must be %d bytes, got %d",
			format,
			format.BlockSize(),
			len(block),
		))
	}

	if format != pinblock.ISO4 {
		clear, err := blockcipher.DecryptBlock(alg, key, block)
		if err != nil {
			return "", fmt.Errorf("decrypt pin block: %w", err)
		}

		return ParsePinBlock(format, clear, pan)
	}

	panField, err := pinblock.PANField(pan, pinblock.ISO4)
	if err != nil {
		return "", fmt.Errorf("decrypt pin block: %w", err)
	}
	c, err := blockcipher.New(alg, key)
	if err != nil {
		return "", fmt.Errorf("decrypt pin block: %w", err)
	}

	field := make([]byte, len(block))
	c.Decrypt(field, block)
	for i := range field {
		field[i] ^= panField[i]
	}
	c.Decrypt(field, field)

	pin, err := pinblock.DecodeISO4Field(field)
	if err != nil {
		return "", fmt.Errorf("decrypt pin block: %w", err)
	}

	return pin, nil
}

// TranslateRequest moves an encrypted PIN block from one key and format to
// another.
type TranslateRequest struct {
	SourceAlgorithm blockcipher.Algorithm
	SourceKey       []byte
	SourceFormat    pinblock.Format
	DestAlgorithm   blockcipher.Algorithm
	DestKey         []byte
	DestFormat      pinblock.Format
	Block           []byte
	PAN             string
	Options         []pinblock.Option
}

// TranslatePinBlock decrypts req.Block under the source key and format and
// re-encrypts the PIN under the destination key and format.
func TranslatePinBlock(req TranslateRequest) ([]byte, error) {
	pin, err := DecryptPinBlock(req.SourceAlgorithm, req.SourceKey, req.SourceFormat, req.Block, req.PAN)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	out, err := EncryptPinBlock(req.DestAlgorithm, req.DestKey, req.DestFormat, pin, req.PAN, req.Options...)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	return out, nil
}

func checkPinBlockAlgorithm(alg blockcipher.Algorithm, format pinblock.Format) error {
	switch {
	case format == pinblock.ISO4 && alg != blockcipher.AES:
		return cryptoutils.Newf(
			cryptoutils.KindInvalidKeyConfiguration,
			"%s pin blocks need an AES key, got %s",
			format,
			alg,
		)
	case format != pinblock.ISO4 && alg == blockcipher.AES:
		return cryptoutils.Newf(
			cryptoutils.KindInvalidKeyConfiguration,
			"%s pin blocks need a DES or TDES key, got %s",
			format,
			alg,
		)
	default:
		return nil
	}
}
