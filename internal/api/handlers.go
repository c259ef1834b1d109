package api

import (
	"net/http"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
	"github.com/andrei-cloud/paycalc/pkg/kcv"
	"github.com/andrei-cloud/paycalc/pkg/mac"
	"github.com/andrei-cloud/paycalc/pkg/modes"
	"github.com/andrei-cloud/paycalc/pkg/pinblock"
)

// CipherRequest is the body of /encrypt and /decrypt. Byte fields are hex.
type CipherRequest struct {
	Algorithm string `json:"algorithm"`
	Mode      string `json:"mode"`
	Padding   string `json:"padding,omitempty"`
	Key       string `json:"key"`
	IV        string `json:"iv,omitempty"`
	Data      string `json:"data"`
}

// KCVRequest is the body of /kcv.
type KCVRequest struct {
	Algorithm string `json:"algorithm"`
	Key       string `json:"key"`
	Digits    int    `json:"digits,omitempty"`
	Method    string `json:"method,omitempty"`
}

// MACRequest is the body of /mac.
type MACRequest struct {
	Algorithm string `json:"algorithm"`
	Key       string `json:"key"`
	Data      string `json:"data"`
	TagLength int    `json:"tag_length,omitempty"`
	Padding   string `json:"padding,omitempty"`
}

// PinBlockRequest is the body of /pinblock/format and /pinblock/parse. With
// a key the block is enciphered or deciphered; without one it is clear.
type PinBlockRequest struct {
	Format    string `json:"format"`
	PIN       string `json:"pin,omitempty"`
	PAN       string `json:"pan,omitempty"`
	PinBlock  string `json:"pin_block,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
	Key       string `json:"key,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	s.handleCipher(w, r, engine.EncryptHex)
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	s.handleCipher(w, r, engine.DecryptHex)
}

func (s *Server) handleCipher(
	w http.ResponseWriter,
	r *http.Request,
	run func(engine.HexOperation) (string, error),
) {
	var req CipherRequest
	if !decode(w, r, &req) {
		return
	}

	op, err := s.hexOperation(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := run(op)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"data": out})
}

func (s *Server) hexOperation(req CipherRequest) (engine.HexOperation, error) {
	op := engine.HexOperation{Key: req.Key, IV: req.IV, Data: req.Data}

	var err error
	if op.Algorithm, err = blockcipher.ParseAlgorithm(req.Algorithm); err != nil {
		return op, err
	}
	if op.Mode, err = modes.ParseMode(req.Mode); err != nil {
		return op, err
	}
	padding := req.Padding
	if padding == "" && !op.Mode.IsStream() {
		padding = s.defaults.Padding
	}
	if op.Padding, err = modes.ParsePadding(padding); err != nil {
		return op, err
	}

	return op, nil
}

func (s *Server) handleKCV(w http.ResponseWriter, r *http.Request) {
	var req KCVRequest
	if !decode(w, r, &req) {
		return
	}

	alg, err := blockcipher.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	method, err := kcv.ParseMethod(req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}
	key, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(req.Key))
	if err != nil {
		writeError(w, r, err)
		return
	}
	digits := req.Digits
	if digits == 0 {
		digits = s.defaults.KCVDigits
	}

	out, err := engine.ComputeKCVWith(alg, key, digits, method)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"kcv": out})
}

func (s *Server) handleMAC(w http.ResponseWriter, r *http.Request) {
	var req MACRequest
	if !decode(w, r, &req) {
		return
	}

	alg, err := mac.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pad, err := mac.ParsePadMethod(req.Padding)
	if err != nil {
		writeError(w, r, err)
		return
	}
	key, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(req.Key))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(req.Data))
	if err != nil {
		writeError(w, r, err)
		return
	}
	tagLength := req.TagLength
	if tagLength == 0 {
		tagLength = min(s.defaults.MACTagLength, alg.BlockSize())
	}

	tag, err := engine.ComputeMACWith(alg, key, data, tagLength, pad)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"mac": cryptoutils.BytesToHex(tag)})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pinblock.SupportedFormats())
}

func (s *Server) handleFormatPinBlock(w http.ResponseWriter, r *http.Request) {
	var req PinBlockRequest
	if !decode(w, r, &req) {
		return
	}

	format, err := pinblock.ParseFormat(req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var block []byte
	if req.Key == "" {
		block, err = engine.FormatPinBlock(format, req.PIN, req.PAN)
	} else {
		var alg blockcipher.Algorithm
		var key []byte
		if alg, key, err = parseKey(req.Algorithm, req.Key); err == nil {
			block, err = engine.EncryptPinBlock(alg, key, format, req.PIN, req.PAN)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"format":    format.String(),
		"pin_block": cryptoutils.BytesToHex(block),
	})
}

func (s *Server) handleParsePinBlock(w http.ResponseWriter, r *http.Request) {
	var req PinBlockRequest
	if !decode(w, r, &req) {
		return
	}

	format, err := pinblock.ParseFormat(req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	block, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(req.PinBlock))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var pin string
	if req.Key == "" {
		pin, err = engine.ParsePinBlock(format, block, req.PAN)
	} else {
		var alg blockcipher.Algorithm
		var key []byte
		if alg, key, err = parseKey(req.Algorithm, req.Key); err == nil {
			pin, err = engine.DecryptPinBlock(alg, key, format, block, req.PAN)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"format": format.String(), "pin": pin})
}

func parseKey(algName, keyHex string) (blockcipher.Algorithm, []byte, error) {
	alg, err := blockcipher.ParseAlgorithm(algName)
	if err != nil {
		return 0, nil, err
	}
	key, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(keyHex))
	if err != nil {
		return 0, nil, err
	}

	return alg, key, nil
}
