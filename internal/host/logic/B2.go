package logic

import (
	"fmt"
	"strconv"

	"github.com/andrei-cloud/paycalc/internal/errorcodes"
)

// ExecuteB2 echoes data back to the caller.
// Format: Length(4 hex) + Data.
func ExecuteB2(input []byte) ([]byte, error) {
	logDebug("B2", fmt.Sprintf("input length %d", len(input)))

	if len(input) < 4 {
		return nil, errorcodes.Err15
	}

	dataLen, err := strconv.ParseUint(string(input[:4]), 16, 16)
	if err != nil {
		return nil, errorcodes.Err15
	}
	if len(input) != 4+int(dataLen) {
		return nil, fmt.Errorf("echo length %d, got %d bytes: %w", dataLen, len(input)-4, errorcodes.Err15)
	}

	resp := make([]byte, 0, 4+int(dataLen))
	resp = append(resp, "B300"...)
	resp = append(resp, input[4:]...)

	return resp, nil
}
