package cryptoutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "uppercase", input: "0123ABCD", want: []byte{0x01, 0x23, 0xAB, 0xCD}},
		{name: "lowercase", input: "0123abcd", want: []byte{0x01, 0x23, 0xAB, 0xCD}},
		{name: "empty", input: "", want: []byte{}},
		{name: "odd length", input: "ABC", wantErr: true},
		{name: "non-hex character", input: "0G", wantErr: true},
		{name: "embedded space", input: "01 23", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := HexToBytes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEncoding)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeHexRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "00", "abcdef", "0123456789aBcDeF", "FFFF"} {
		raw, err := HexToBytes(s)
		require.NoError(t, err)

		norm, err := NormalizeHex(s)
		require.NoError(t, err)
		assert.Equal(t, norm, BytesToHex(raw), "round trip of %q", s)
	}
}

func TestStripSpaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0123456789ABCDEF", StripSpaces("0123 4567\t89AB\nCDEF"))
}

func TestPrepareTripleDESKey(t *testing.T) {
	t.Parallel()

	k1 := []byte{1, 1, 1, 1, 1, 1, 1, 1}
	k2 := []byte{2, 2, 2, 2, 2, 2, 2, 2}

	single := PrepareTripleDESKey(k1)
	assert.Equal(t, append(append(append([]byte{}, k1...), k1...), k1...), single)

	double := PrepareTripleDESKey(append(append([]byte{}, k1...), k2...))
	assert.Equal(t, append(append(append([]byte{}, k1...), k2...), k1...), double)

	triple := append(append(append([]byte{}, k1...), k2...), k2...)
	assert.Equal(t, triple, PrepareTripleDESKey(triple))
}

func TestChunk(t *testing.T) {
	t.Parallel()

	chunks := Chunk([]byte{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]byte{{1, 2}, {3, 4}, {5}}, chunks)
	assert.Nil(t, Chunk([]byte{1}, 0))
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	err := Newf(KindInvalidPadding, "pad byte %d out of range", 9)
	wrapped := fmt.Errorf("decrypt: %w", err)

	assert.ErrorIs(t, wrapped, ErrInvalidPadding)
	assert.False(t, errors.Is(wrapped, ErrInvalidIV))
	assert.Equal(t, KindInvalidPadding, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "InvalidPadding: pad byte 9 out of range", err.Error())
	assert.Equal(t, "InvalidIV", ErrInvalidIV.Error())
}
