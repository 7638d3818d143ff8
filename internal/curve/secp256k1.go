package curve

import "math/big"

func hexInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: invalid hex constant " + s)
	}
	return n
}

// Secp256k1 is the curve Bitcoin signs and derives addresses on:
// y^2 = x^3 + 7 (mod p).
var Secp256k1 = &Curve{
	Name: "secp256k1",
	P:    hexInt("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
	A:    big.NewInt(0),
	B:    big.NewInt(7),
}

// Secp256k1Generator is the base point G and the order n of the subgroup it
// generates, as published in SEC 2.
var Secp256k1Generator = Generator{
	G: Point{
		Curve: Secp256k1,
		X:     hexInt("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
		Y:     hexInt("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
	},
	N: hexInt("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
}
