package logic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fips81Hex = "4E6F77206973207468652074696D6520666F7220616C6C20"

func TestExecuteNC(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteNC, []commandCase{
		{name: "version", input: []byte("0007-E000"), want: "ND0008D7B4FB629D08850007-E000"},
		{name: "short version", input: []byte("1.0"), wantCode: "15"},
	})
}

func TestExecuteB2(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteB2, []commandCase{
		{name: "echo", input: []byte("0005HELLO"), want: "B300HELLO"},
		{name: "empty echo", input: []byte("0000"), want: "B300"},
		{name: "short input", input: []byte{1}, wantCode: "15"},
		{name: "bad length", input: []byte("00ZZHELLO"), wantCode: "15"},
		{name: "length mismatch", input: []byte("0005HEL"), wantCode: "15"},
	})
}

func TestExecuteBU(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteBU, []commandCase{
		{name: "tdes six digits", input: payload("T", "06", hexf(tdesKey)), want: "BV0008D7B4"},
		{name: "des sixteen digits", input: payload("D", "16", hexf(desKey)), want: "BV00D5D44FF720683D0D"},
		{
			name:  "aes full block",
			input: payload("A", "32", hexf(aesKey)),
			want:  "BV00C6A13B37878F5B826F4F8162A1C8D879",
		},
		{name: "bad key length", input: payload("T", "06", hexf("0123456789ABCD")), wantCode: "02"},
		{name: "too many digits", input: payload("D", "17", hexf(desKey)), wantCode: "15"},
		{name: "unknown algorithm", input: payload("X", "06", hexf(desKey)), wantCode: "15"},
		{name: "truncated", input: []byte("T0"), wantCode: "15"},
	})
}

func TestExecuteM0M2(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteM0, []commandCase{
		{
			name:  "tdes ecb single length key",
			input: payload("00", "T", "0", hexf(desKey), hexf(""), hexf("3132333435363738")),
			want:  "M1000010BD0B1A49070AC376",
		},
		{
			name:  "des cbc",
			input: payload("01", "D", "0", hexf(desKey), hexf("1234567890ABCDEF"), hexf(fips81Hex)),
			want:  "M1000030E5C7CDDE872BF27C43E934008C389C0F683788499A7C05F6",
		},
		{
			name:  "tdes cbc pkcs7",
			input: payload("01", "T", "1", hexf(tdesKey), hexf("0000000000000000"), hexf("68656C6C6F")),
			want:  "M10000106507EDAD79479F8B",
		},
		{
			name:     "misaligned data",
			input:    payload("00", "T", "0", hexf(desKey), hexf(""), hexf("3132333435")),
			wantCode: "80",
		},
		{
			name:     "cbc without iv",
			input:    payload("01", "T", "0", hexf(desKey), hexf(""), hexf("3132333435363738")),
			wantCode: "15",
		},
		{
			name:     "unknown mode",
			input:    payload("09", "T", "0", hexf(desKey), hexf(""), hexf("3132333435363738")),
			wantCode: "15",
		},
		{
			name:     "short key",
			input:    payload("00", "T", "0", hexf("0123456789ABCD"), hexf(""), hexf("3132333435363738")),
			wantCode: "02",
		},
	})

	runCommandCases(t, ExecuteM2, []commandCase{
		{
			name:  "tdes ecb single length key",
			input: payload("00", "T", "0", hexf(desKey), hexf(""), hexf("BD0B1A49070AC376")),
			want:  "M30000103132333435363738",
		},
		{
			name:  "des cbc",
			input: payload("01", "D", "0", hexf(desKey), hexf("1234567890ABCDEF"), hexf("E5C7CDDE872BF27C43E934008C389C0F683788499A7C05F6")),
			want:  "M3000030" + fips81Hex,
		},
		{
			name:  "tdes cbc pkcs7",
			input: payload("01", "T", "1", hexf(tdesKey), hexf("0000000000000000"), hexf("6507EDAD79479F8B")),
			want:  "M300000A68656C6C6F",
		},
		{
			name:     "inconsistent padding",
			input:    payload("00", "T", "1", hexf(desKey), hexf(""), hexf("BD0B1A49070AC376")),
			wantCode: "77",
		},
		{
			name:     "trailing bytes",
			input:    payload("00", "T", "0", hexf(desKey), hexf(""), hexf("BD0B1A49070AC376"), "X"),
			wantCode: "15",
		},
	})
}

func TestExecuteM6(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteM6, []commandCase{
		{
			name:  "retail mac",
			input: payload("3", "1", "08", hexf(tdesKey), hexf(fips81Hex)),
			want:  "M700A1C72E74EA3FA9B6",
		},
		{
			name:  "retail mac method 2",
			input: payload("3", "2", "08", hexf(tdesKey), hexf("31323334353637383930")),
			want:  "M700AA6DE10E3150794F",
		},
		{
			name:  "retail mac short tag",
			input: payload("3", "1", "04", hexf(tdesKey), hexf(fips81Hex)),
			want:  "M700A1C72E74",
		},
		{
			name:  "alg1 des",
			input: payload("1", "1", "08", hexf(desKey), hexf(fips81Hex)),
			want:  "M70070A30640CC76DD8B",
		},
		{
			name:  "cmac empty",
			input: payload("5", "1", "16", hexf("2B7E151628AED2A6ABF7158809CF4F3C"), hexf("")),
			want:  "M700BB1D6929E95937287FA37D129B756746",
		},
		{
			name:     "retail mac equal halves",
			input:    payload("3", "1", "08", hexf(desKey+desKey), hexf("")),
			wantCode: "27",
		},
		{
			name:     "tag too long",
			input:    payload("3", "1", "09", hexf(tdesKey), hexf("")),
			wantCode: "15",
		},
		{
			name:     "unknown algorithm",
			input:    payload("4", "1", "08", hexf(tdesKey), hexf("")),
			wantCode: "15",
		},
	})
}

func TestExecuteJGJE(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteJG, []commandCase{
		{
			name:  "iso0 tdes",
			input: payload("T", "01", hexf(tdesKey), decf("1234"), testPAN),
			want:  "JH002A3D408A1977DDE9",
		},
		{
			name:     "unknown format code",
			input:    payload("T", "99", hexf(tdesKey), decf("1234"), testPAN),
			wantCode: "23",
		},
		{
			name:     "aes key with iso0",
			input:    payload("A", "01", hexf(aesKey), decf("1234"), testPAN),
			wantCode: "27",
		},
		{
			name:     "pin too short",
			input:    payload("T", "01", hexf(tdesKey), decf("123"), testPAN),
			wantCode: "20",
		},
	})

	runCommandCases(t, ExecuteJE, []commandCase{
		{
			name:  "iso0 tdes",
			input: payload("T", "01", hexf(tdesKey), hexf("2A3D408A1977DDE9"), testPAN),
			want:  "JF001234",
		},
		{
			name:     "wrong key",
			input:    payload("T", "01", hexf(tdesKey2), hexf("2A3D408A1977DDE9"), testPAN),
			wantCode: "20",
		},
		{
			name:     "short block",
			input:    payload("T", "01", hexf(tdesKey), hexf("2A3D408A1977DD"), testPAN),
			wantCode: "20",
		},
	})
}

func TestJGJERoundTripRandomFormats(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		alg  string
		code string
		key  string
	}{
		{"T", "05", tdesKey},
		{"T", "47", tdesKey},
		{"A", "48", aesKey},
	} {
		resp, err := ExecuteJG(payload(tc.alg, tc.code, hexf(tc.key), decf("98765"), testPAN))
		require.NoError(t, err, tc.code)
		require.True(t, strings.HasPrefix(string(resp), "JH00"))

		block := string(resp[4:])
		resp, err = ExecuteJE(payload(tc.alg, tc.code, hexf(tc.key), hexf(block), testPAN))
		require.NoError(t, err, tc.code)
		assert.Equal(t, "JF0098765", string(resp))
	}
}

func TestExecuteCA(t *testing.T) {
	t.Parallel()

	runCommandCases(t, ExecuteCA, []commandCase{
		{
			name:  "iso0 key change",
			input: payload("T", "01", "01", hexf(tdesKey), hexf(tdesKey2), hexf("2A3D408A1977DDE9"), testPAN),
			want:  "CB0009955680A3423446",
		},
		{
			name:     "unknown destination format",
			input:    payload("T", "01", "77", hexf(tdesKey), hexf(tdesKey2), hexf("2A3D408A1977DDE9"), testPAN),
			wantCode: "23",
		},
		{
			name:     "source block under wrong key",
			input:    payload("T", "01", "47", hexf(tdesKey2), hexf(tdesKey), hexf("2A3D408A1977DDE9"), testPAN),
			wantCode: "20",
		},
	})

	resp, err := ExecuteCA(payload("T", "01", "47", hexf(tdesKey), hexf(tdesKey2), hexf("2A3D408A1977DDE9"), testPAN))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(resp), "CB00"))

	resp, err = ExecuteJE(payload("T", "47", hexf(tdesKey2), hexf(string(resp[4:])), testPAN))
	require.NoError(t, err)
	assert.Equal(t, "JF001234", string(resp))
}
