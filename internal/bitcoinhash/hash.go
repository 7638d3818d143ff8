// Package bitcoinhash provides the hashing and encoding primitives Bitcoin
// layers on top of raw SHA-256: HASH160, double SHA-256, and Base58Check.
package bitcoinhash

import (
	"math/big"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // sanctioned external primitive for HASH160

	"github.com/karpathy/cryptos-go/internal/sha256core"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// base58Alphabet excludes 0, O, I, and l to avoid visual ambiguity.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Hash256 returns SHA-256(SHA-256(data)), used for txids and block ids.
func Hash256(data []byte) []byte {
	return sha256core.Hash256(data)
}

// Hash160 returns RIPEMD160(SHA-256(data)), used to derive public key
// and script hashes for addresses.
func Hash160(data []byte) []byte {
	sum := sha256core.Sum256(data)
	r := ripemd160.New()
	r.Write(sum[:]) //nolint:errcheck
	return r.Sum(nil)
}

// EncodeBase58 encodes raw bytes in Bitcoin's Base58 alphabet, preserving
// leading zero bytes as leading '1' characters.
func EncodeBase58(b []byte) string {
	zero := big.NewInt(0)
	base := big.NewInt(58)
	n := new(big.Int).SetBytes(b)

	var out []byte
	mod := new(big.Int)
	for n.Cmp(zero) > 0 {
		n.DivMod(n, base, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}

	// reverse
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	for _, c := range b {
		if c != 0x00 {
			break
		}
		out = append([]byte{base58Alphabet[0]}, out...)
	}

	return string(out)
}

// EncodeBase58Check appends a 4-byte Hash256 checksum to b and Base58-encodes
// the result.
func EncodeBase58Check(b []byte) string {
	checksum := Hash256(b)[:4]
	return EncodeBase58(append(append([]byte{}, b...), checksum...))
}

// DecodeBase58 decodes a Base58 string back into raw bytes, restoring
// leading zero bytes for each leading '1' character.
func DecodeBase58(s string) ([]byte, error) {
	n := big.NewInt(0)
	base := big.NewInt(58)

	for _, c := range s {
		idx := indexInAlphabet(byte(c))
		if idx < 0 {
			return nil, coreerr.ErrInvalidBase58
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(idx)))
	}

	decoded := n.Bytes()

	leadingZeros := 0
	for _, c := range s {
		if byte(c) != base58Alphabet[0] {
			break
		}
		leadingZeros++
	}

	out := make([]byte, leadingZeros+len(decoded))
	copy(out[leadingZeros:], decoded)
	return out, nil
}

// DecodeBase58Check decodes s and verifies its trailing 4-byte Hash256
// checksum, returning the payload with the checksum stripped.
func DecodeBase58Check(s string) ([]byte, error) {
	raw, err := DecodeBase58(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, coreerr.ErrInvalidBase58
	}

	payload, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	want := Hash256(payload)[:4]
	for i := range checksum {
		if checksum[i] != want[i] {
			return nil, coreerr.ErrChecksumMismatch
		}
	}
	return payload, nil
}

func indexInAlphabet(c byte) int {
	for i := 0; i < len(base58Alphabet); i++ {
		if base58Alphabet[i] == c {
			return i
		}
	}
	return -1
}
