package logic

import (
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
)

// ExecuteJG builds and encrypts a PIN block.
// Format: Algorithm(1) + FormatCode(2) + Key(L) + PIN(2 + n) + PAN(2 + n).
func ExecuteJG(input []byte) ([]byte, error) {
	r := newFieldReader("JG", input)

	alg, err := r.algorithm()
	if err != nil {
		return nil, err
	}
	format, err := r.format("format code")
	if err != nil {
		return nil, err
	}
	key, err := r.secretHexField("key")
	if err != nil {
		return nil, err
	}
	pin, err := r.secretDecField("pin")
	if err != nil {
		return nil, err
	}
	pan, err := r.secretDecField("pan")
	if err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}

	block, err := engine.EncryptPinBlock(alg, key, format, pin, pan)
	if err != nil {
		return nil, err
	}

	return append([]byte("JH00"), cryptoutils.BytesToHex(block)...), nil
}

// ExecuteJE decrypts a PIN block and returns the clear PIN.
// Format: Algorithm(1) + FormatCode(2) + Key(L) + Block(L) + PAN(2 + n).
func ExecuteJE(input []byte) ([]byte, error) {
	r := newFieldReader("JE", input)

	alg, err := r.algorithm()
	if err != nil {
		return nil, err
	}
	format, err := r.format("format code")
	if err != nil {
		return nil, err
	}
	key, err := r.secretHexField("key")
	if err != nil {
		return nil, err
	}
	block, err := r.hexField("pin block")
	if err != nil {
		return nil, err
	}
	pan, err := r.secretDecField("pan")
	if err != nil {
		return nil, err
	}
	if err := r.end(); err != nil {
		return nil, err
	}

	pin, err := engine.DecryptPinBlock(alg, key, format, block, pan)
	if err != nil {
		return nil, err
	}

	return append([]byte("JF00"), pin...), nil
}
