package logic

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/internal/errorcodes"
	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/engine"
)

// testKey is the fixed double-length key whose check value NC reports.
var testKey = []byte{
	0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF,
	0xFE, 0xDC, 0xBA, 0x98, 0x76, 0x54, 0x32, 0x10,
}

// ExecuteNC runs the diagnostics command. The dispatcher passes the
// firmware version as input. Format: ND00 + KCV(16) + version.
func ExecuteNC(input []byte) ([]byte, error) {
	logInfo("NC", "running diagnostics")

	if len(input) < 9 {
		return nil, fmt.Errorf("version %q too short: %w", input, errorcodes.Err15)
	}

	kcv, err := engine.ComputeKCV(blockcipher.TDES, testKey, 16)
	if err != nil {
		return nil, err
	}
	logDebug("NC", "test key check value "+kcv)

	resp := make([]byte, 0, 4+len(kcv)+len(input))
	resp = append(resp, "ND00"...)
	resp = append(resp, kcv...)
	resp = append(resp, input...)

	return resp, nil
}
