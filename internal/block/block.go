// Package block implements Bitcoin block header parsing, proof-of-work
// validation, and 2016-block retarget arithmetic.
package block

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/karpathy/cryptos-go/internal/bitcoinhash"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// HeaderSize is the fixed wire size of a block header.
const HeaderSize = 80

// TwoWeeksSeconds is the target interval (MAX) the retarget formula clamps
// the observed time difference against: 2016 blocks at 10 minutes each.
const TwoWeeksSeconds = 1209600

// BlocksPerEpoch is the number of blocks between difficulty retargets.
const BlocksPerEpoch = 2016

// Header is a parsed 80-byte Bitcoin block header.
type Header struct {
	Version    uint32
	PrevBlock  [32]byte // internal (little-endian) byte order, as on the wire
	MerkleRoot [32]byte // internal byte order
	Timestamp  uint32
	Bits       [4]byte // compact target, little-endian on the wire
	Nonce      uint32
}

// Parse decodes an 80-byte header.
func Parse(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, coreerr.ErrTruncated
	}

	var h Header
	h.Version = binary.LittleEndian.Uint32(b[0:4])
	copy(h.PrevBlock[:], b[4:36])
	copy(h.MerkleRoot[:], b[36:68])
	h.Timestamp = binary.LittleEndian.Uint32(b[68:72])
	copy(h.Bits[:], b[72:76])
	h.Nonce = binary.LittleEndian.Uint32(b[76:80])
	return h, nil
}

// Serialize is the inverse of Parse.
func (h Header) Serialize() []byte {
	out := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(out[0:4], h.Version)
	copy(out[4:36], h.PrevBlock[:])
	copy(out[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(out[68:72], h.Timestamp)
	copy(out[72:76], h.Bits[:])
	binary.LittleEndian.PutUint32(out[76:80], h.Nonce)
	return out
}

// ID returns HASH256(header), displayed as the familiar big-endian hex
// string (the wire/comparison value is little-endian).
func (h Header) ID() string {
	digest := bitcoinhash.Hash256(h.Serialize())
	reversed := make([]byte, len(digest))
	for i, v := range digest {
		reversed[len(digest)-1-i] = v
	}
	return hex.EncodeToString(reversed)
}

// idLE returns the HASH256 digest interpreted as a little-endian integer,
// the value proof-of-work compares against target.
func (h Header) idLE() *big.Int {
	digest := bitcoinhash.Hash256(h.Serialize())
	reversed := make([]byte, len(digest))
	for i, v := range digest {
		reversed[len(digest)-1-i] = v
	}
	return new(big.Int).SetBytes(reversed)
}

// Target decodes h.Bits (mantissa(3 bytes LE) ‖ exponent(1 byte)) into the
// proof-of-work target: mantissa * 256^(exponent-3).
func (h Header) Target() *big.Int {
	return BitsToTarget(h.Bits)
}

// BitsToTarget decodes a compact-bits field into its target integer.
func BitsToTarget(bits [4]byte) *big.Int {
	exponent := bits[3]
	mantissa := new(big.Int).SetBytes([]byte{bits[2], bits[1], bits[0]})

	shift := int(exponent) - 3
	if shift <= 0 {
		return new(big.Int).Rsh(mantissa, uint(-shift*8))
	}
	return new(big.Int).Lsh(mantissa, uint(shift*8))
}

// TargetToBits encodes a target integer back into compact-bits form.
func TargetToBits(target *big.Int) [4]byte {
	raw := target.Bytes()

	// Strip all leading zero bytes; the high-bit (sign) adjustment of the
	// mantissa is made below.
	for len(raw) > 0 && raw[0] == 0 {
		raw = raw[1:]
	}

	var mantissa []byte
	var exponent int
	if len(raw) <= 3 {
		exponent = 3
		mantissa = make([]byte, 3)
		copy(mantissa[3-len(raw):], raw)
	} else {
		exponent = len(raw)
		mantissa = raw[:3]
	}

	// A set high bit in the mantissa would be read back as a sign bit;
	// shift the mantissa right by a byte and bump the exponent to compensate,
	// regardless of which branch above produced it.
	if mantissa[0]&0x80 != 0 {
		mantissa = append([]byte{0x00}, mantissa[:2]...)
		exponent++
	}

	var out [4]byte
	out[0] = mantissa[2]
	out[1] = mantissa[1]
	out[2] = mantissa[0]
	out[3] = byte(exponent)
	return out
}

// ValidPoW reports whether h's id, interpreted little-endian, is below its
// target.
func (h Header) ValidPoW() bool {
	return h.idLE().Cmp(h.Target()) < 0
}

// Difficulty expresses the header's target relative to the genesis
// (lowest-difficulty) target, the conventional "difficulty 1" baseline.
func (h Header) Difficulty() *big.Float {
	genesisTarget := new(big.Float).SetInt(BitsToTarget([4]byte{0xff, 0xff, 0x00, 0x1d}))
	target := new(big.Float).SetInt(h.Target())
	return new(big.Float).Quo(genesisTarget, target)
}

// NewBits computes the retargeted compact-bits field given the first and
// last header timestamps of the epoch that just closed and the old bits,
// preserving the well-known "2015 intervals" quirk: timeDifferential is the
// last block's timestamp minus the *first* block's timestamp of the same
// 2016-block epoch, one interval short of the full 2016.
func NewBits(firstTimestamp, lastTimestamp uint32, oldBits [4]byte) [4]byte {
	timeDifferential := int64(lastTimestamp) - int64(firstTimestamp)

	const maxDiff = TwoWeeksSeconds * 4
	const minDiff = TwoWeeksSeconds / 4
	if timeDifferential > maxDiff {
		timeDifferential = maxDiff
	}
	if timeDifferential < minDiff {
		timeDifferential = minDiff
	}

	oldTarget := BitsToTarget(oldBits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(timeDifferential))
	newTarget.Div(newTarget, big.NewInt(TwoWeeksSeconds))

	maxTarget := BitsToTarget([4]byte{0xff, 0xff, 0x00, 0x1d})
	if newTarget.Cmp(maxTarget) > 0 {
		newTarget = maxTarget
	}

	return TargetToBits(newTarget)
}
