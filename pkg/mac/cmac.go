package mac

import (
	"crypto/cipher"
	"slices"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
)

const cmacRb = 0x87

// CMAC computes the full-length AES-CMAC (NIST SP 800-38B, RFC 4493) of data.
func CMAC(key, data []byte) ([]byte, error) {
	block, err := blockcipher.New(blockcipher.AES, key)
	if err != nil {
		return nil, err
	}

	return cmac(block, data), nil
}

func cmac(block cipher.Block, data []byte) []byte {
	bs := block.BlockSize()

	l := make([]byte, bs)
	block.Encrypt(l, make([]byte, bs))
	k1 := shiftSubkey(l)
	k2 := shiftSubkey(k1)

	var (
		head []byte
		last = make([]byte, bs)
	)
	switch rem := len(data) % bs; {
	case len(data) > 0 && rem == 0:
		// complete final block: XOR with K1.
		head = data[:len(data)-bs]
		copy(last, data[len(data)-bs:])
		xorInto(last, k1)
	default:
		// empty or partial final block: 10* padding, XOR with K2.
		head = data[:len(data)-rem]
		copy(last, data[len(data)-rem:])
		last[rem] = 0x80
		xorInto(last, k2)
	}

	x := make([]byte, bs)
	for off := 0; off < len(head); off += bs {
		xorInto(x, head[off:off+bs])
		block.Encrypt(x, x)
	}
	xorInto(x, last)
	block.Encrypt(x, x)

	return x
}

// shiftSubkey shifts b left by one bit and folds in Rb when the MSB was set.
func shiftSubkey(b []byte) []byte {
	out := slices.Clone(b)
	var carry byte
	for i := len(out) - 1; i >= 0; i-- {
		next := out[i] >> 7
		out[i] = out[i]<<1 | carry
		carry = next
	}
	if b[0]&0x80 != 0 {
		out[len(out)-1] ^= cmacRb
	}

	return out
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
