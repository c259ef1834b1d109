package logic

import (
	"github.com/andrei-cloud/paycalc/pkg/engine"
	"github.com/andrei-cloud/paycalc/pkg/modes"
)

// ExecuteM0 encrypts data.
// Format: Mode(2) + Algorithm(1) + Padding(1) + Key(L) + IV(L) + Data(L),
// where L fields carry a 4-character hex length.
func ExecuteM0(input []byte) ([]byte, error) {
	op, err := readOperation("M0", input)
	if err != nil {
		return nil, err
	}

	out, err := engine.Encrypt(op)
	if err != nil {
		return nil, err
	}

	return appendHexField([]byte("M100"), out), nil
}

// ExecuteM2 decrypts data. The payload layout is the same as M0.
func ExecuteM2(input []byte) ([]byte, error) {
	op, err := readOperation("M2", input)
	if err != nil {
		return nil, err
	}

	out, err := engine.Decrypt(op)
	if err != nil {
		return nil, err
	}

	return appendHexField([]byte("M300"), out), nil
}

func readOperation(cmd string, input []byte) (engine.Operation, error) {
	var op engine.Operation
	r := newFieldReader(cmd, input)

	modeCode, err := r.fixed("mode", 2)
	if err != nil {
		return op, err
	}
	if op.Mode, err = modes.ParseMode(modeCode); err != nil {
		return op, err
	}
	if op.Algorithm, err = r.algorithm(); err != nil {
		return op, err
	}
	padCode, err := r.fixed("padding", 1)
	if err != nil {
		return op, err
	}
	if op.Padding, err = modes.ParsePadding(padCode); err != nil {
		return op, err
	}
	if op.Key, err = r.secretHexField("key"); err != nil {
		return op, err
	}
	if op.IV, err = r.hexField("iv"); err != nil {
		return op, err
	}
	if op.Data, err = r.hexField("data"); err != nil {
		return op, err
	}

	return op, r.end()
}
