package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrei-cloud/paycalc/pkg/pinblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tdesKey = "0123456789ABCDEFFEDCBA9876543210"
	aesKey  = "000102030405060708090A0B0C0D0E0F"
)

func newTestServer() *Server {
	return New("127.0.0.1:0", "test", Defaults{KCVDigits: 6, MACTagLength: 8, Padding: "none"})
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	out := map[string]string{}
	if rec.Header().Get("Content-Type") == "application/json" && path != "/api/v1/pinblock/formats" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}

	return rec, out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, out := do(t, newTestServer(), http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "test", out["version"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	rec, out := do(t, s, http.MethodPost, "/api/v1/encrypt", CipherRequest{
		Algorithm: "tdes",
		Mode:      "ecb",
		Key:       "0123456789ABCDEF",
		Data:      "3132333435363738",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "BD0B1A49070AC376", out["data"])

	rec, out = do(t, s, http.MethodPost, "/api/v1/decrypt", CipherRequest{
		Algorithm: "tdes",
		Mode:      "cbc",
		Padding:   "pkcs7",
		Key:       tdesKey,
		IV:        "0000000000000000",
		Data:      "6507EDAD79479F8B",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "68656C6C6F", out["data"])
}

func TestEngineErrorsAre422(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	tests := []struct {
		name string
		path string
		body any
		kind string
		code string
	}{
		{
			name: "short key",
			path: "/api/v1/encrypt",
			body: CipherRequest{Algorithm: "tdes", Mode: "ecb", Key: "0123456789ABCD", Data: "3132333435363738"},
			kind: "InvalidKeyLength",
			code: "02",
		},
		{
			name: "misaligned data",
			path: "/api/v1/encrypt",
			body: CipherRequest{Algorithm: "tdes", Mode: "ecb", Key: "0123456789ABCDEF", Data: "3132333435"},
			kind: "InvalidBlockAlignment",
			code: "80",
		},
		{
			name: "bad padding",
			path: "/api/v1/decrypt",
			body: CipherRequest{
				Algorithm: "tdes",
				Mode:      "ecb",
				Padding:   "pkcs7",
				Key:       "0123456789ABCDEF",
				Data:      "BD0B1A49070AC376",
			},
			kind: "InvalidPadding",
			code: "77",
		},
		{
			name: "bad hex",
			path: "/api/v1/kcv",
			body: KCVRequest{Algorithm: "des", Key: "XYZ"},
			kind: "InvalidEncoding",
			code: "15",
		},
		{
			name: "retail mac equal halves",
			path: "/api/v1/mac",
			body: MACRequest{Algorithm: "3", Key: "0123456789ABCDEF0123456789ABCDEF"},
			kind: "InvalidKeyConfiguration",
			code: "27",
		},
		{
			name: "short pin",
			path: "/api/v1/pinblock/format",
			body: PinBlockRequest{Format: "ISO-0", PIN: "12", PAN: "4111111111111111"},
			kind: "InvalidPinBlockFormat",
			code: "20",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, out := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, tt.kind, out["error"])
			assert.Equal(t, tt.code, out["code"])
			assert.NotEmpty(t, out["detail"])
		})
	}
}

func TestMalformedBodyIs400(t *testing.T) {
	t.Parallel()

	s := newTestServer()
	for _, body := range []string{"{", `{"unknown":1}`, `{"key":5}`} {
		rec, out := do(t, s, http.MethodPost, "/api/v1/kcv", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "BadRequest", out["error"])
	}
}

func TestKCV(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	_, out := do(t, s, http.MethodPost, "/api/v1/kcv", KCVRequest{Algorithm: "tdes", Key: tdesKey})
	assert.Equal(t, "08D7B4", out["kcv"], "configured default digits")

	_, out = do(t, s, http.MethodPost, "/api/v1/kcv", KCVRequest{Algorithm: "des", Key: "0123456789ABCDEF", Digits: 16})
	assert.Equal(t, "D5D44FF720683D0D", out["kcv"])

	_, out = do(t, s, http.MethodPost, "/api/v1/kcv", KCVRequest{Algorithm: "aes", Key: aesKey, Method: "cmac", Digits: 10})
	assert.Equal(t, "BE7ED6AE78", out["kcv"])
}

func TestMAC(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	_, out := do(t, s, http.MethodPost, "/api/v1/mac", MACRequest{
		Algorithm: "retail",
		Key:       tdesKey,
		Data:      "4E6F77206973207468652074696D6520666F7220616C6C20",
	})
	assert.Equal(t, "A1C72E74EA3FA9B6", out["mac"])

	_, out = do(t, s, http.MethodPost, "/api/v1/mac", MACRequest{
		Algorithm: "cmac",
		Key:       "2B7E151628AED2A6ABF7158809CF4F3C",
		TagLength: 16,
	})
	assert.Equal(t, "BB1D6929E95937287FA37D129B756746", out["mac"])
}

func TestPinBlockFormatAndParse(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	_, out := do(t, s, http.MethodPost, "/api/v1/pinblock/format", PinBlockRequest{
		Format: "01",
		PIN:    "1234",
		PAN:    "4111111111111111",
	})
	assert.Equal(t, "041225EEEEEEEEEE", out["pin_block"])
	assert.Equal(t, "ISO-0", out["format"])

	_, out = do(t, s, http.MethodPost, "/api/v1/pinblock/format", PinBlockRequest{
		Format:    "ISO-0",
		PIN:       "1234",
		PAN:       "4111111111111111",
		Algorithm: "tdes",
		Key:       tdesKey,
	})
	assert.Equal(t, "2A3D408A1977DDE9", out["pin_block"])

	_, out = do(t, s, http.MethodPost, "/api/v1/pinblock/parse", PinBlockRequest{
		Format:    "iso0",
		PinBlock:  "2A3D408A1977DDE9",
		PAN:       "4111111111111111",
		Algorithm: "tdes",
		Key:       tdesKey,
	})
	assert.Equal(t, "1234", out["pin"])

	_, out = do(t, s, http.MethodPost, "/api/v1/pinblock/parse", PinBlockRequest{
		Format:   "ISO-2",
		PinBlock: "241234FFFFFFFFFF",
	})
	assert.Equal(t, "1234", out["pin"])
}

func TestPinBlockFormats(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, newTestServer(), http.MethodGet, "/api/v1/pinblock/formats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var formats []pinblock.FormatInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &formats))
	require.Len(t, formats, 5)
	assert.Equal(t, "01", formats[0].Code)
	assert.Equal(t, "ISO-4", formats[4].Format)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/encrypt"},
		{http.MethodGet, "/api/v1/pinblock/parse"},
		{http.MethodPost, "/api/v1/health"},
		{http.MethodDelete, "/api/v1/kcv"},
	}

	s := newTestServer()
	for _, tt := range tests {
		rec, body := do(t, s, tt.method, tt.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "MethodNotAllowed", body["error"], "%s %s", tt.method, tt.path)
	}

	rec, _ := do(t, s, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := New(addr, "test", Defaults{KCVDigits: 6, MACTagLength: 8})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/v1/health")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
