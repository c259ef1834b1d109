package logic

import (
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
	"github.com/andrei-cloud/paycalc/pkg/mac"
)

// ExecuteM6 generates a MAC.
// Format: Algorithm(1: 1, 3 or 5) + Padding(1: 1 or 2) + TagLength(2) +
// Key(L) + Data(L).
func ExecuteM6(input []byte) ([]byte, error) {
	r := newFieldReader("M6", input)

	algCode, err := r.fixed("mac algorithm", 1)
	if err != nil {
		return nil, err
	}
	alg, err := mac.ParseAlgorithm(algCode)
	if err != nil {
		return nil, err
	}
	padCode, err := r.fixed("mac padding", 1)
	if err != nil {
		return nil, err
	}
	pad, err := mac.ParsePadMethod(padCode)
	if err != nil {
		return nil, err
	}
	tagLength, err := r.decimal("tag length", 2)
	if err != nil {
		return nil, err
	}
	key, err := r.secretHexField("key")
	if err != nil {
		return nil, err
	}
	data, err := r.hexField("data")
	if err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}

	tag, err := engine.ComputeMACWith(alg, key, data, tagLength, pad)
	if err != nil {
		return nil, err
	}

	return append([]byte("M700"), cryptoutils.BytesToHex(tag)...), nil
}
