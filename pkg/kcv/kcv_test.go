package kcv

import (
	"encoding/hex"
	"testing"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		alg    blockcipher.Algorithm
		key    string
		digits int
		method Method
		want   string
	}{
		{name: "single DES", alg: blockcipher.DES, key: "0123456789ABCDEF", digits: 16, want: "D5D44FF720683D0D"},
		{name: "TDES single length", alg: blockcipher.TDES, key: "0123456789ABCDEF", digits: 6, want: "D5D44F"},
		{name: "TDES double length", alg: blockcipher.TDES, key: "0123456789ABCDEFFEDCBA9876543210", digits: 6, want: "08D7B4"},
		{name: "TDES double length full", alg: blockcipher.TDES, key: "0123456789ABCDEFFEDCBA9876543210", digits: 16, want: "08D7B4FB629D0885"},
		{name: "TDES triple length", alg: blockcipher.TDES, key: "0123456789ABCDEFFEDCBA98765432100011223344556677", digits: 6, want: "CBE6A7"},
		{name: "AES-128", alg: blockcipher.AES, key: "000102030405060708090A0B0C0D0E0F", digits: 32, want: "C6A13B37878F5B826F4F8162A1C8D879"},
		{name: "TDES ascii zeros", alg: blockcipher.TDES, key: "0123456789ABCDEFFEDCBA9876543210", digits: 16, method: ASCIIZeros, want: "70A69B483E522A82"},
		{name: "AES ascii zeros", alg: blockcipher.AES, key: "000102030405060708090A0B0C0D0E0F", digits: 6, method: ASCIIZeros, want: "9BB5F6"},
		{name: "AES cmac", alg: blockcipher.AES, key: "000102030405060708090A0B0C0D0E0F", digits: 10, method: CMAC, want: "BE7ED6AE78"},
		{name: "one digit", alg: blockcipher.TDES, key: "0123456789ABCDEFFEDCBA9876543210", digits: 1, want: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, err := hex.DecodeString(tt.key)
			require.NoError(t, err)

			got, err := Compute(tt.alg, key, tt.digits, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		alg     blockcipher.Algorithm
		keyLen  int
		digits  int
		method  Method
		wantErr error
	}{
		{name: "7 byte key", alg: blockcipher.TDES, keyLen: 7, digits: 6, wantErr: cryptoutils.ErrInvalidKeyLength},
		{name: "zero digits", alg: blockcipher.TDES, keyLen: 16, digits: 0, wantErr: cryptoutils.ErrInvalidArgument},
		{name: "too many digits", alg: blockcipher.TDES, keyLen: 16, digits: 17, wantErr: cryptoutils.ErrInvalidArgument},
		{name: "AES too many digits", alg: blockcipher.AES, keyLen: 16, digits: 33, wantErr: cryptoutils.ErrInvalidArgument},
		{name: "cmac needs AES", alg: blockcipher.TDES, keyLen: 16, digits: 6, method: CMAC, wantErr: cryptoutils.ErrInvalidArgument},
		{name: "unknown method", alg: blockcipher.TDES, keyLen: 16, digits: 6, method: Method(9), wantErr: cryptoutils.ErrInvalidArgument},
		{name: "unknown algorithm", alg: blockcipher.Algorithm(0), keyLen: 16, digits: 6, wantErr: cryptoutils.ErrInvalidArgument},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compute(tt.alg, make([]byte, tt.keyLen), tt.digits, tt.method)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseMethod(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Method{"": ZeroBlock, "ASCII": ASCIIZeros, "cmac": CMAC} {
		got, err := ParseMethod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEqual(t, "unknown", got.String())
	}

	_, err := ParseMethod("sha1")
	assert.ErrorIs(t, err, cryptoutils.ErrInvalidArgument)
}
