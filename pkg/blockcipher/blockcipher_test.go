package blockcipher

import (
	"encoding/hex"
	"testing"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func TestEncryptBlockKnownAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		alg    Algorithm
		key    string
		plain  string
		cipher string
	}{
		{
			name:   "TDES single length key is plain DES",
			alg:    TDES,
			key:    "0123456789ABCDEF",
			plain:  hex.EncodeToString([]byte("12345678")),
			cipher: "BD0B1A49070AC376",
		},
		{
			name:   "DES",
			alg:    DES,
			key:    "0123456789ABCDEF",
			plain:  hex.EncodeToString([]byte("12345678")),
			cipher: "BD0B1A49070AC376",
		},
		{
			name:   "TDES double length zero block",
			alg:    TDES,
			key:    "0123456789ABCDEFFEDCBA9876543210",
			plain:  "0000000000000000",
			cipher: "08D7B4FB629D0885",
		},
		{
			name:   "TDES triple length EDE order",
			alg:    TDES,
			key:    "0123456789ABCDEFFEDCBA98765432100011223344556677",
			plain:  "3132333435363738",
			cipher: "A890B2DB9F231A5E",
		},
		{
			name:   "AES-128 FIPS-197",
			alg:    AES,
			key:    "000102030405060708090A0B0C0D0E0F",
			plain:  "00112233445566778899AABBCCDDEEFF",
			cipher: "69C4E0D86A7B0430D8CDB78070B4C55A",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key := mustHex(t, tt.key)
			plain := mustHex(t, tt.plain)

			got, err := EncryptBlock(tt.alg, key, plain)
			require.NoError(t, err)
			assert.Equal(t, tt.cipher, cryptoutils.Raw2Str(got))

			back, err := DecryptBlock(tt.alg, key, got)
			require.NoError(t, err)
			assert.Equal(t, plain, back)
		})
	}
}

func TestNewRejectsInvalidKeyLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		alg    Algorithm
		keyLen int
	}{
		{name: "7 byte TDES key", alg: TDES, keyLen: 7},
		{name: "16 byte DES key", alg: DES, keyLen: 16},
		{name: "20 byte TDES key", alg: TDES, keyLen: 20},
		{name: "8 byte AES key", alg: AES, keyLen: 8},
		{name: "empty AES key", alg: AES, keyLen: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.alg, make([]byte, tt.keyLen))
			require.Error(t, err)
			assert.ErrorIs(t, err, cryptoutils.ErrInvalidKeyLength)
		})
	}
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := New(Algorithm(42), make([]byte, 8))
	assert.ErrorIs(t, err, cryptoutils.ErrInvalidArgument)
}

func TestEncryptBlockRejectsWrongBlockSize(t *testing.T) {
	t.Parallel()

	_, err := EncryptBlock(DES, make([]byte, 8), make([]byte, 5))
	assert.ErrorIs(t, err, cryptoutils.ErrInvalidBlockAlignment)
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Algorithm{
		"des": DES, "D": DES, "TDES": TDES, "3des": TDES, "tdea": TDES, "aes": AES, " A ": AES,
	} {
		got, err := ParseAlgorithm(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseAlgorithm("blowfish")
	assert.ErrorIs(t, err, cryptoutils.ErrInvalidArgument)
}

func TestBlockSizeAndKeyLengths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, BlockSize(DES))
	assert.Equal(t, 8, BlockSize(TDES))
	assert.Equal(t, 16, BlockSize(AES))
	assert.Equal(t, 0, BlockSize(Algorithm(0)))
	assert.Equal(t, []int{8, 16, 24}, ValidKeyLengths(TDES))
	assert.Equal(t, "AES", AES.String())
}
