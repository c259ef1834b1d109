package logic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/andrei-cloud/paycalc/internal/errorcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tdesKey  = "0123456789ABCDEFFEDCBA9876543210"
	tdesKey2 = "FEDCBA98765432100123456789ABCDEF"
	desKey   = "0123456789ABCDEF"
	aesKey   = "000102030405060708090A0B0C0D0E0F"
	testPAN  = "164111111111111111"
)

// hexf builds a hex field: 4-character hex length + value.
func hexf(value string) string {
	return fmt.Sprintf("%04X", len(value)) + value
}

// decf builds a decimal field: 2-digit length + value.
func decf(value string) string {
	return fmt.Sprintf("%02d", len(value)) + value
}

func payload(fields ...string) []byte {
	return []byte(strings.Join(fields, ""))
}

type commandCase struct {
	name     string
	input    []byte
	want     string
	wantCode string
}

func runCommandCases(t *testing.T, exec func([]byte) ([]byte, error), cases []commandCase) {
	t.Helper()

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := exec(tc.input)
			if tc.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, resp)
				assert.Equal(t, tc.wantCode, errorcodes.FromError(err).CodeOnly(), err.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, string(resp))
		})
	}
}
