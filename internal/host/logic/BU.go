package logic

import (
	"github.com/andrei-cloud/paycalc/pkg/engine"
)

// ExecuteBU returns the check value of a clear key.
// Format: Algorithm(1) + Digits(2) + Key(4 hex length + hex).
func ExecuteBU(input []byte) ([]byte, error) {
	r := newFieldReader("BU", input)

	alg, err := r.algorithm()
	if err != nil {
		return nil, err
	}
	digits, err := r.decimal("digits", 2)
	if err != nil {
		return nil, err
	}
	key, err := r.secretHexField("key")
	if err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}

	kcv, err := engine.ComputeKCV(alg, key, digits)
	if err != nil {
		return nil, err
	}

	return append([]byte("BV00"), kcv...), nil
}
