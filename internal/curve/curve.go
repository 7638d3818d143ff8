// Package curve implements short Weierstrass elliptic curves over a prime
// field and the secp256k1 group used throughout Bitcoin.
package curve

import (
	"math/big"

	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// Curve is a short Weierstrass curve y^2 = x^3 + a*x + b (mod p). Adding
// points from different curves returns ErrMixedCurve rather than silently
// producing garbage.
type Curve struct {
	Name string
	P    *big.Int
	A    *big.Int
	B    *big.Int
}

// Point is a coordinate pair on a Curve, or the distinguished point at
// infinity when Infinity is true.
type Point struct {
	Curve    *Curve
	X, Y     *big.Int
	Infinity bool
}

// Infinity returns the identity element O of curve c's group.
func Infinity(c *Curve) Point {
	return Point{Curve: c, Infinity: true}
}

// NewPoint constructs a finite point and verifies it lies on the curve.
func NewPoint(c *Curve, x, y *big.Int) (Point, error) {
	p := Point{Curve: c, X: new(big.Int).Mod(x, c.P), Y: new(big.Int).Mod(y, c.P)}
	if !p.onCurve() {
		return Point{}, coreerr.ErrPointNotOnCurve
	}
	return p, nil
}

func (p Point) onCurve() bool {
	// y^2 == x^3 + a*x + b (mod p)
	lhs := new(big.Int).Mul(p.Y, p.Y)
	lhs.Mod(lhs, p.Curve.P)

	rhs := new(big.Int).Mul(p.X, p.X)
	rhs.Mul(rhs, p.X)
	ax := new(big.Int).Mul(p.Curve.A, p.X)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, p.Curve.B)
	rhs.Mod(rhs, p.Curve.P)

	return lhs.Cmp(rhs) == 0
}

func (p Point) sameCurve(q Point) error {
	if p.Curve != q.Curve && p.Curve.Name != q.Curve.Name {
		return coreerr.ErrMixedCurve
	}
	return nil
}

// Add implements the chord-tangent group law: O is the identity, P+(-P)=O,
// P+P uses the tangent slope, otherwise the chord slope between P and Q.
func (p Point) Add(q Point) (Point, error) {
	if err := p.sameCurve(q); err != nil {
		return Point{}, err
	}

	if p.Infinity {
		return q, nil
	}
	if q.Infinity {
		return p, nil
	}

	curveP := p.Curve.P

	if p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) != 0 {
		return Infinity(p.Curve), nil
	}

	var m *big.Int
	if p.X.Cmp(q.X) == 0 {
		// Tangent slope: (3x^2 + a) / (2y)
		num := new(big.Int).Mul(p.X, p.X)
		num.Mul(num, big.NewInt(3))
		num.Add(num, p.Curve.A)

		den := new(big.Int).Mul(p.Y, big.NewInt(2))
		denInv := modInverse(den, curveP)

		m = new(big.Int).Mul(num, denInv)
		m.Mod(m, curveP)
	} else {
		// Chord slope: (y2 - y1) / (x2 - x1)
		num := new(big.Int).Sub(q.Y, p.Y)
		den := new(big.Int).Sub(q.X, p.X)
		denInv := modInverse(den, curveP)

		m = new(big.Int).Mul(num, denInv)
		m.Mod(m, curveP)
	}

	rx := new(big.Int).Mul(m, m)
	rx.Sub(rx, p.X)
	rx.Sub(rx, q.X)
	rx.Mod(rx, curveP)

	ry := new(big.Int).Sub(rx, p.X)
	ry.Mul(ry, m)
	ry.Add(ry, p.Y)
	ry.Neg(ry)
	ry.Mod(ry, curveP)

	return Point{Curve: p.Curve, X: rx, Y: ry}, nil
}

// Mul computes k*P via double-and-add, iterating over the bits of k
// LSB-first.
func (p Point) Mul(k *big.Int) Point {
	result := Infinity(p.Curve)
	addend := p
	n := new(big.Int).Set(k)

	zero := big.NewInt(0)
	one := big.NewInt(1)
	two := big.NewInt(2)

	for n.Cmp(zero) > 0 {
		bit := new(big.Int).And(n, one)
		if bit.Cmp(one) == 0 {
			// errors impossible here: both operands share p.Curve by construction
			result, _ = result.Add(addend) //nolint:errcheck
		}
		addend, _ = addend.Add(addend) //nolint:errcheck
		n.Rsh(n, 1)
		_ = two
	}
	return result
}

// Equal reports whether p and q denote the same point on the same curve.
func (p Point) Equal(q Point) bool {
	if p.Curve != q.Curve {
		return false
	}
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// modInverse returns n^-1 mod p via the extended Euclidean algorithm.
func modInverse(n, p *big.Int) *big.Int {
	return new(big.Int).ModInverse(new(big.Int).Mod(n, p), p)
}

// Generator is a base point together with the (precomputed) order of the
// cyclic subgroup it generates: 0*G = n*G = O.
type Generator struct {
	G Point
	N *big.Int
}
