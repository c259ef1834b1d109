package logic

import (
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
)

// ExecuteCA translates a PIN block from one key and format to another.
// Format: Algorithm(1) + SourceFormat(2) + DestFormat(2) + SourceKey(L) +
// DestKey(L) + Block(L) + PAN(2 + n). Both keys use the same algorithm.
func ExecuteCA(input []byte) ([]byte, error) {
	r := newFieldReader("CA", input)

	alg, err := r.algorithm()
	if err != nil {
		return nil, err
	}
	srcFormat, err := r.format("source format")
	if err != nil {
		return nil, err
	}
	dstFormat, err := r.format("destination format")
	if err != nil {
		return nil, err
	}
	srcKey, err := r.secretHexField("source key")
	if err != nil {
		return nil, err
	}
	dstKey, err := r.secretHexField("destination key")
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

	out, err := engine.TranslatePinBlock(engine.TranslateRequest{
		SourceAlgorithm: alg,
		SourceKey:       srcKey,
		SourceFormat:    srcFormat,
		DestAlgorithm:   alg,
		DestKey:         dstKey,
		DestFormat:      dstFormat,
		Block:           block,
		PAN:             pan,
	})
	if err != nil {
		return nil, err
	}

	return append([]byte("CB00"), cryptoutils.BytesToHex(out)...), nil
}
