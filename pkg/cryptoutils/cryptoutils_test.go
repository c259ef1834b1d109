package cryptoutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaw2Str(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01AB0F", Raw2Str([]byte{0x01, 0xab, 0x0f}))
	assert.Equal(t, "", Raw2Str(nil))
}

func TestXORBytes(t *testing.T) {
	t.Parallel()

	got, err := XORBytes([]byte{0xAA, 0x0F}, []byte{0x01, 0xF0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xFF}, got)

	_, err = XORBytes([]byte{0x01}, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestKeyParity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		odd  bool
	}{
		{name: "test key", key: "0123456789ABCDEFFEDCBA9876543210", odd: true},
		{name: "all even", key: "0000000000000000", odd: false},
		{name: "mixed", key: "DEAFBEEDDEAFBEED", odd: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, err := HexToBytes(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.odd, CheckKeyParity(key))

			fixed := FixKeyParity(key)
			assert.True(t, CheckKeyParity(fixed))
			for i := range key {
				assert.Equal(t, key[i]&0xFE, fixed[i]&0xFE, "only the low bit changes")
			}
		})
	}
}
