// Package engine is the stateless payment cryptography calculator: block
// cipher encryption, key check values, PIN blocks and MACs over in-memory
// key and data bytes. Every call allocates its own result buffers and never
// writes to its inputs.
package engine

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/kcv"
	"github.com/andrei-cloud/paycalc/pkg/mac"
	"github.com/andrei-cloud/paycalc/pkg/modes"
)

// Operation describes one encryption or decryption. The direction is the
// function it is passed to.
type Operation struct {
	Algorithm blockcipher.Algorithm
	Key       []byte
	Mode      modes.Mode
	IV        []byte
	Padding   modes.Padding
	Data      []byte
}

// Encrypt enciphers op.Data.
func Encrypt(op Operation) ([]byte, error) {
	block, err := blockcipher.New(op.Algorithm, op.Key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	out, err := modes.Encrypt(block, op.Mode, op.IV, op.Data, op.Padding)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return out, nil
}

// Decrypt deciphers op.Data and strips padding when op.Padding is set.
func Decrypt(op Operation) ([]byte, error) {
	block, err := blockcipher.New(op.Algorithm, op.Key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	out, err := modes.Decrypt(block, op.Mode, op.IV, op.Data, op.Padding)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	return out, nil
}

// ComputeKCV returns the zero-block key check value truncated to digits.
func ComputeKCV(alg blockcipher.Algorithm, key []byte, digits int) (string, error) {
	return ComputeKCVWith(alg, key, digits, kcv.ZeroBlock)
}

// ComputeKCVWith returns the key check value computed with method.
func ComputeKCVWith(alg blockcipher.Algorithm, key []byte, digits int, method kcv.Method) (string, error) {
	out, err := kcv.Compute(alg, key, digits, method)
	if err != nil {
		return "", fmt.Errorf("kcv: %w", err)
	}

	return out, nil
}

// ComputeMAC returns a tag using ISO/IEC 9797-1 padding method 1.
func ComputeMAC(alg mac.Algorithm, key, data []byte, tagLength int) ([]byte, error) {
	return ComputeMACWith(alg, key, data, tagLength, mac.PadMethod1)
}

// ComputeMACWith returns a tag using the given padding method.
func ComputeMACWith(alg mac.Algorithm, key, data []byte, tagLength int, pad mac.PadMethod) ([]byte, error) {
	out, err := mac.Compute(alg, key, data, tagLength, pad)
	if err != nil {
		return nil, fmt.Errorf("mac: %w", err)
	}

	return out, nil
}
