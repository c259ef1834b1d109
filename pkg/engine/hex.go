package engine

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/mac"
	"github.com/andrei-cloud/paycalc/pkg/modes"
)

// HexOperation is an Operation whose byte fields are hex strings.
// Spaces in the hex fields are ignored.
type HexOperation struct {
	Algorithm blockcipher.Algorithm
	Mode      modes.Mode
	Padding   modes.Padding
	Key       string
	IV        string
	Data      string
}

func (h HexOperation) decode() (Operation, error) {
	op := Operation{Algorithm: h.Algorithm, Mode: h.Mode, Padding: h.Padding}

	var err error
	if op.Key, err = decodeField("key", h.Key); err != nil {
		return op, err
	}
	if op.IV, err = decodeField("iv", h.IV); err != nil {
		return op, err
	}
	if op.Data, err = decodeField("data", h.Data); err != nil {
		return op, err
	}

	return op, nil
}

// EncryptHex decodes op, encrypts and returns uppercase hex.
func EncryptHex(op HexOperation) (string, error) {
	raw, err := op.decode()
	if err != nil {
		return "", err
	}
	out, err := Encrypt(raw)
	if err != nil {
		return "", err
	}

	return cryptoutils.BytesToHex(out), nil
}

// DecryptHex decodes op, decrypts and returns uppercase hex.
func DecryptHex(op HexOperation) (string, error) {
	raw, err := op.decode()
	if err != nil {
		return "", err
	}
	out, err := Decrypt(raw)
	if err != nil {
		return "", err
	}

	return cryptoutils.BytesToHex(out), nil
}

// ComputeKCVHex computes the zero-block check value of a hex key.
func ComputeKCVHex(alg blockcipher.Algorithm, keyHex string, digits int) (string, error) {
	key, err := decodeField("key", keyHex)
	if err != nil {
		return "", err
	}

	return ComputeKCV(alg, key, digits)
}

// ComputeMACHex computes a tag over hex data with a hex key, padding method 1.
func ComputeMACHex(alg mac.Algorithm, keyHex, dataHex string, tagLength int) (string, error) {
	key, err := decodeField("key", keyHex)
	if err != nil {
		return "", err
	}
	data, err := decodeField("data", dataHex)
	if err != nil {
		return "", err
	}
	out, err := ComputeMAC(alg, key, data, tagLength)
	if err != nil {
		return "", err
	}

	return cryptoutils.BytesToHex(out), nil
}

func decodeField(name, s string) ([]byte, error) {
	b, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(s))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return b, nil
}
