// Package ecdsa implements signing and verification on secp256k1 using
// RFC 6979 deterministic nonce derivation, DER signature encoding, and
// low-S normalization.
package ecdsa

import (
	"bytes"
	"crypto/hmac"
	"hash"
	"math/big"

	"github.com/karpathy/cryptos-go/internal/curve"
	"github.com/karpathy/cryptos-go/internal/keys"
	"github.com/karpathy/cryptos-go/internal/sha256core"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// Signature is an ECDSA (r, s) pair, both positive and less than the
// secp256k1 group order n.
type Signature struct {
	R *big.Int
	S *big.Int
}

func newHash() hash.Hash { return sha256core.New() }

// Sign produces a deterministic ECDSA signature over digest z using private
// key e, per RFC 6979 §3.2 with HMAC-SHA256 as the PRF.
func Sign(e keys.PrivateKey, z *big.Int) Signature {
	n := curve.Secp256k1Generator.N
	g := curve.Secp256k1Generator.G

	for k := range rfc6979Candidates(e.Secret, z, n) {
		r := new(big.Int).Mod(g.Mul(k).X, n)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, n)
		s := new(big.Int).Mul(r, e.Secret)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		half := new(big.Int).Rsh(n, 1)
		if s.Cmp(half) > 0 {
			s.Sub(n, s)
		}

		return Signature{R: r, S: s}
	}

	panic("ecdsa: rfc6979 candidate generator exhausted without a valid nonce")
}

// Verify checks signature sig over digest z against public key pub.
func Verify(pub keys.PublicKey, z *big.Int, sig Signature) bool {
	n := curve.Secp256k1Generator.N
	g := curve.Secp256k1Generator.G

	if sig.R.Sign() <= 0 || sig.R.Cmp(n) >= 0 {
		return false
	}
	if sig.S.Sign() <= 0 || sig.S.Cmp(n) >= 0 {
		return false
	}

	sInv := new(big.Int).ModInverse(sig.S, n)

	u1 := new(big.Int).Mul(z, sInv)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(sig.R, sInv)
	u2.Mod(u2, n)

	p1 := g.Mul(u1)
	p2 := pub.Point.Mul(u2)

	x, err := p1.Add(p2)
	if err != nil {
		return false
	}
	if x.Infinity {
		return false
	}

	xModN := new(big.Int).Mod(x.X, n)
	return xModN.Cmp(sig.R) == 0
}

// rfc6979Candidates yields successive deterministic k candidates per
// RFC 6979 §3.2, for Sign to test until it finds one producing a valid
// (r, s). Closed over e and z so HMAC state carries across retries.
func rfc6979Candidates(secret, z, n *big.Int) func(func(*big.Int) bool) {
	qlen := n.BitLen()
	rolen := (qlen + 7) / 8

	bits2int := func(b []byte) *big.Int {
		v := new(big.Int).SetBytes(b)
		blen := len(b) * 8
		if blen > qlen {
			v.Rsh(v, uint(blen-qlen))
		}
		return v
	}

	int2octets := func(v *big.Int) []byte {
		b := v.Bytes()
		if len(b) >= rolen {
			return b[len(b)-rolen:]
		}
		out := make([]byte, rolen)
		copy(out[rolen-len(b):], b)
		return out
	}

	bits2octets := func(b []byte) []byte {
		z1 := bits2int(b)
		z1.Mod(z1, n)
		return int2octets(z1)
	}

	x := int2octets(secret)
	h1 := bits2octets(z.Bytes())

	v := bytes.Repeat([]byte{0x01}, sha256core.Size)
	k := make([]byte, sha256core.Size)

	hmacSum := func(key, data []byte) []byte {
		mac := hmac.New(newHash, key)
		mac.Write(data) //nolint:errcheck
		return mac.Sum(nil)
	}

	k = hmacSum(k, append(append(append(append([]byte{}, v...), 0x00), x...), h1...))
	v = hmacSum(k, v)
	k = hmacSum(k, append(append(append(append([]byte{}, v...), 0x01), x...), h1...))
	v = hmacSum(k, v)

	return func(yield func(*big.Int) bool) {
		for {
			var t []byte
			for len(t) < rolen {
				v = hmacSum(k, v)
				t = append(t, v...)
			}

			candidate := bits2int(t)
			if candidate.Sign() > 0 && candidate.Cmp(n) < 0 {
				if !yield(candidate) {
					return
				}
			}

			k = hmacSum(k, append(append([]byte{}, v...), 0x00))
			v = hmacSum(k, v)
		}
	}
}

// DER encodes sig per the canonical DER format: 0x30 len 0x02 len(r) r
// 0x02 len(s) s, with each integer left-padded by 0x00 when its high bit
// is set.
func (sig Signature) DER() []byte {
	encodeInt := func(v *big.Int) []byte {
		b := v.Bytes()
		if len(b) == 0 {
			b = []byte{0x00}
		}
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return append([]byte{0x02, byte(len(b))}, b...)
	}

	rEnc := encodeInt(sig.R)
	sEnc := encodeInt(sig.S)

	body := append(append([]byte{}, rEnc...), sEnc...)
	return append([]byte{0x30, byte(len(body))}, body...)
}

// ParseDER decodes a DER-encoded signature.
func ParseDER(data []byte) (Signature, error) {
	if len(data) < 6 || data[0] != 0x30 {
		return Signature{}, coreerr.ErrNonCanonicalDER
	}

	totalLen := int(data[1])
	if totalLen+2 != len(data) {
		return Signature{}, coreerr.ErrNonCanonicalDER
	}

	if data[2] != 0x02 {
		return Signature{}, coreerr.ErrNonCanonicalDER
	}
	rLen := int(data[3])
	if 4+rLen > len(data) {
		return Signature{}, coreerr.ErrNonCanonicalDER
	}
	r := new(big.Int).SetBytes(data[4 : 4+rLen])

	rest := data[4+rLen:]
	if len(rest) < 2 || rest[0] != 0x02 {
		return Signature{}, coreerr.ErrNonCanonicalDER
	}
	sLen := int(rest[1])
	if 2+sLen > len(rest) {
		return Signature{}, coreerr.ErrNonCanonicalDER
	}
	s := new(big.Int).SetBytes(rest[2 : 2+sLen])

	return Signature{R: r, S: s}, nil
}
