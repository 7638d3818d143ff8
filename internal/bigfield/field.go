// Package bigfield implements modular arithmetic over an arbitrary prime
// finite field. It is the base layer the curve package builds its group
// law on top of.
package bigfield

import (
	"math/big"

	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// Element is an integer modulo a prime p. The invariant 0 <= Value < P
// is maintained by every constructor and operation in this package.
type Element struct {
	Value *big.Int
	P     *big.Int
}

// New reduces v modulo p and returns the resulting Element.
func New(v, p *big.Int) Element {
	val := new(big.Int).Mod(v, p)
	return Element{Value: val, P: p}
}

// NewInt64 is a convenience constructor for small values.
func NewInt64(v int64, p *big.Int) Element {
	return New(big.NewInt(v), p)
}

func (e Element) samePrime(o Element) error {
	if e.P.Cmp(o.P) != 0 {
		return coreerr.ErrMixedPrime
	}
	return nil
}

// Add returns e + o mod p.
func (e Element) Add(o Element) (Element, error) {
	if err := e.samePrime(o); err != nil {
		return Element{}, err
	}
	return New(new(big.Int).Add(e.Value, o.Value), e.P), nil
}

// Sub returns e - o mod p.
func (e Element) Sub(o Element) (Element, error) {
	if err := e.samePrime(o); err != nil {
		return Element{}, err
	}
	return New(new(big.Int).Sub(e.Value, o.Value), e.P), nil
}

// Mul returns e * o mod p.
func (e Element) Mul(o Element) (Element, error) {
	if err := e.samePrime(o); err != nil {
		return Element{}, err
	}
	return New(new(big.Int).Mul(e.Value, o.Value), e.P), nil
}

// Pow returns e^k mod p for a nonnegative exponent k, via square-and-multiply
// (delegated to math/big's constant-structure ModExp, which is not required
// to be constant-time per this core's Non-goals).
func (e Element) Pow(k *big.Int) Element {
	return New(new(big.Int).Exp(e.Value, k, e.P), e.P)
}

// Inverse returns the multiplicative inverse of e modulo p via Fermat's
// little theorem: a^(p-2) mod p == a^-1 mod p, valid because p is prime.
func (e Element) Inverse() Element {
	exp := new(big.Int).Sub(e.P, big.NewInt(2))
	return e.Pow(exp)
}

// Neg returns -e mod p.
func (e Element) Neg() Element {
	return New(new(big.Int).Neg(e.Value), e.P)
}

// Equal reports whether e and o denote the same residue over the same prime.
func (e Element) Equal(o Element) bool {
	return e.P.Cmp(o.P) == 0 && e.Value.Cmp(o.Value) == 0
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.Value.Sign() == 0
}

// Bytes returns the big-endian, n-byte representation of e.Value, left-padded
// with zeros.
func (e Element) Bytes(n int) []byte {
	b := e.Value.Bytes()
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
