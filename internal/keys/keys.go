// Package keys derives Bitcoin private keys, public keys, and addresses
// on top of the secp256k1 group in internal/curve.
package keys

import (
	"math/big"

	"github.com/karpathy/cryptos-go/internal/bitcoinhash"
	"github.com/karpathy/cryptos-go/internal/curve"
	"github.com/karpathy/cryptos-go/internal/entropy"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// VersionMainnet and VersionTestnet are the Base58Check version bytes used
// when deriving an Address.
const (
	VersionMainnet byte = 0x00
	VersionTestnet byte = 0x6f
)

// MasteringBitcoinTestVector is the fixed secret used by the "mastering"
// getnewaddress mode, taken from the worked example in Mastering Bitcoin.
var MasteringBitcoinTestVector = hexToBigInt("3aba4162c7251c891207b747840551a71939b0de081f85c4e44cf7c13e41daa6")

func hexToBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("keys: invalid hex constant " + s)
	}
	return n
}

// PrivateKey is a scalar in [1, n-1] over the secp256k1 group order.
type PrivateKey struct {
	Secret *big.Int
}

// PublicKey is a non-infinity point on secp256k1.
type PublicKey struct {
	Point curve.Point
}

// NewPrivateKey validates that secret is a valid scalar and wraps it.
func NewPrivateKey(secret *big.Int) (PrivateKey, error) {
	n := curve.Secp256k1Generator.N
	if secret.Sign() <= 0 || secret.Cmp(n) >= 0 {
		return PrivateKey{}, coreerr.ErrScalarOutOfRange
	}
	return PrivateKey{Secret: new(big.Int).Set(secret)}, nil
}

// GenerateFromOSRandom draws a private key from OS entropy, interpreting
// 32 random bytes modulo n and rejecting the zero scalar. The raw bytes are
// held in an mlocked buffer and wiped as soon as the scalar is derived.
func GenerateFromOSRandom() (PrivateKey, error) {
	n := curve.Secp256k1Generator.N
	for {
		raw, err := entropy.RandomBytes(32)
		if err != nil {
			return PrivateKey{}, err
		}

		sb := entropy.NewSecureBytes(raw)
		secret := new(big.Int).Mod(new(big.Int).SetBytes(sb.Bytes()), n)
		sb.Zero()

		if secret.Sign() != 0 {
			return PrivateKey{Secret: secret}, nil
		}
	}
}

// GenerateFromUserEntropy derives a private key from a keystroke-timing
// mixed seed, reducing it modulo n. The mixed seed is held in an mlocked
// buffer and wiped as soon as the scalar is derived.
func GenerateFromUserEntropy(fn entropy.PromptFunc) (PrivateKey, error) {
	n := curve.Secp256k1Generator.N
	seed, err := entropy.MixUserEntropy(fn)
	if err != nil {
		return PrivateKey{}, err
	}

	sb := entropy.NewSecureBytes(seed)
	secret := new(big.Int).Mod(new(big.Int).SetBytes(sb.Bytes()), n)
	sb.Zero()

	if secret.Sign() == 0 {
		secret.SetInt64(1)
	}
	return PrivateKey{Secret: secret}, nil
}

// GenerateMastering returns the fixed Mastering Bitcoin test-vector key.
func GenerateMastering() PrivateKey {
	return PrivateKey{Secret: new(big.Int).Set(MasteringBitcoinTestVector)}
}

// PublicKey derives the public point e*G for this private key.
func (pk PrivateKey) PublicKey() PublicKey {
	g := curve.Secp256k1Generator.G
	return PublicKey{Point: g.Mul(pk.Secret)}
}

// SEC encodes the public key in Standards for Efficient Cryptography form,
// compressed unless uncompressed is requested.
func (pub PublicKey) SEC(compressed bool) []byte {
	x := pub.Point.X.Bytes()
	xPadded := make([]byte, 32)
	copy(xPadded[32-len(x):], x)

	if !compressed {
		y := pub.Point.Y.Bytes()
		yPadded := make([]byte, 32)
		copy(yPadded[32-len(y):], y)

		out := make([]byte, 0, 65)
		out = append(out, 0x04)
		out = append(out, xPadded...)
		out = append(out, yPadded...)
		return out
	}

	prefix := byte(0x02)
	if new(big.Int).Mod(pub.Point.Y, big.NewInt(2)).Int64() == 1 {
		prefix = 0x03
	}

	out := make([]byte, 0, 33)
	out = append(out, prefix)
	out = append(out, xPadded...)
	return out
}

// ParseSEC decodes a SEC-encoded public key, reconstructing Y from X for
// the compressed form via the secp256k1 square root a^((p+1)/4) mod p.
func ParseSEC(data []byte) (PublicKey, error) {
	if len(data) == 0 {
		return PublicKey{}, coreerr.ErrInvalidSEC
	}

	switch data[0] {
	case 0x04:
		if len(data) != 65 {
			return PublicKey{}, coreerr.ErrInvalidSEC
		}
		x := new(big.Int).SetBytes(data[1:33])
		y := new(big.Int).SetBytes(data[33:65])
		p, err := curve.NewPoint(curve.Secp256k1, x, y)
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{Point: p}, nil

	case 0x02, 0x03:
		if len(data) != 33 {
			return PublicKey{}, coreerr.ErrInvalidSEC
		}
		x := new(big.Int).SetBytes(data[1:33])
		y := recoverY(x, data[0] == 0x03)
		p, err := curve.NewPoint(curve.Secp256k1, x, y)
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{Point: p}, nil

	default:
		return PublicKey{}, coreerr.ErrInvalidSEC
	}
}

// recoverY computes a candidate y for secp256k1 point x (which satisfies
// p ≡ 3 mod 4) via y = (x^3+7)^((p+1)/4) mod p, choosing the root whose
// parity matches wantOdd.
func recoverY(x *big.Int, wantOdd bool) *big.Int {
	p := curve.Secp256k1.P

	alpha := new(big.Int).Exp(x, big.NewInt(3), p)
	alpha.Add(alpha, curve.Secp256k1.B)
	alpha.Mod(alpha, p)

	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))

	beta := new(big.Int).Exp(alpha, exp, p)

	isOdd := beta.Bit(0) == 1
	if isOdd != wantOdd {
		beta.Sub(p, beta)
	}
	return beta
}

// Address derives the Base58Check address for this public key on the
// given network version byte.
func (pub PublicKey) Address(version byte, compressed bool) string {
	h160 := bitcoinhash.Hash160(pub.SEC(compressed))
	payload := append([]byte{version}, h160...)
	return bitcoinhash.EncodeBase58Check(payload)
}
