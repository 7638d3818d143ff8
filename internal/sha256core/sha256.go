// Package sha256core implements SHA-256 (FIPS 180-4) from scratch, rather
// than delegating to crypto/sha256, so the hashing primitive underlying
// every address, txid, and signature in this core is fully worked out
// here instead of borrowed as a black box. It exposes a hash.Hash-compatible
// streaming API so stdlib packages like crypto/hmac can compose it.
package sha256core

import (
	"encoding/binary"
)

// Size is the length in bytes of a SHA-256 digest.
const Size = 32

// BlockSize is the block size, in bytes, of the SHA-256 compression function.
const BlockSize = 64

// k holds the first 32 bits of the fractional parts of the cube roots of
// the first 64 primes, per FIPS 180-4 section 4.2.2.
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// iv holds the first 32 bits of the fractional parts of the square roots of
// the first 8 primes, per FIPS 180-4 section 5.3.3.
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Digest implements incremental SHA-256 hashing. Its zero value is not
// usable; construct one with New.
type Digest struct {
	h      [8]uint32
	buf    [BlockSize]byte
	nbuf   int
	length uint64
}

// New returns a fresh Digest ready to absorb input, mirroring the
// hash.Hash constructor pattern so this type can substitute for
// crypto/sha256 wherever an incremental hasher is required.
func New() *Digest {
	d := &Digest{}
	d.Reset()
	return d
}

// Reset restores the Digest to its initial state.
func (d *Digest) Reset() {
	d.h = iv
	d.nbuf = 0
	d.length = 0
}

// Size returns the number of bytes Sum will return.
func (d *Digest) Size() int { return Size }

// BlockSize returns the underlying block size.
func (d *Digest) BlockSize() int { return BlockSize }

// Write absorbs p into the running hash state. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	total := len(p)
	d.length += uint64(total)

	if d.nbuf > 0 {
		n := copy(d.buf[d.nbuf:], p)
		d.nbuf += n
		p = p[n:]
		if d.nbuf == BlockSize {
			d.block(d.buf[:])
			d.nbuf = 0
		}
	}

	for len(p) >= BlockSize {
		d.block(p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.nbuf = copy(d.buf[:], p)
	}

	return total, nil
}

// Sum appends the current digest to b and returns the resulting slice,
// without mutating the receiver's state (per hash.Hash semantics).
func (d *Digest) Sum(b []byte) []byte {
	clone := *d
	clone.pad()

	out := make([]byte, 0, Size)
	for _, word := range clone.h {
		out = binary.BigEndian.AppendUint32(out, word)
	}
	return append(b, out...)
}

// pad appends the FIPS 180-4 message padding (a single 1 bit, zeros, and
// the 64-bit big-endian bit length) and processes the trailing block(s).
func (d *Digest) pad() {
	bitLen := d.length * 8

	var tmp [BlockSize]byte
	tmp[0] = 0x80
	if d.nbuf < 56 {
		d.Write(tmp[:56-d.nbuf]) //nolint:errcheck
	} else {
		d.Write(tmp[:BlockSize-d.nbuf+56]) //nolint:errcheck
	}

	// length was mutated by the Write above; restore it for the final block.
	d.length = 0

	var lenBytes [8]byte
	binary.BigEndian.PutUint64(lenBytes[:], bitLen)
	d.Write(lenBytes[:]) //nolint:errcheck
}

// block applies the compression function to one 64-byte block, per FIPS
// 180-4 section 6.2.2.
func (d *Digest) block(p []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4 : i*4+4])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr(w[i-15], 7) ^ rotr(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr(w[i-2], 17) ^ rotr(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, dd, e, f, g, h := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4], d.h[5], d.h[6], d.h[7]

	for i := 0; i < 64; i++ {
		s1 := rotr(e, 6) ^ rotr(e, 11) ^ rotr(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + k[i] + w[i]
		s0 := rotr(a, 2) ^ rotr(a, 13) ^ rotr(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj

		h = g
		g = f
		f = e
		e = dd + t1
		dd = c
		c = b
		b = a
		a = t1 + t2
	}

	d.h[0] += a
	d.h[1] += b
	d.h[2] += c
	d.h[3] += dd
	d.h[4] += e
	d.h[5] += f
	d.h[6] += g
	d.h[7] += h
}

func rotr(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

// Sum256 computes the SHA-256 digest of data in one shot.
func Sum256(data []byte) [Size]byte {
	d := New()
	d.Write(data) //nolint:errcheck
	var out [Size]byte
	copy(out[:], d.Sum(nil))
	return out
}

// Sum256Slice is a convenience wrapper over Sum256 returning a []byte.
func Sum256Slice(data []byte) []byte {
	sum := Sum256(data)
	return sum[:]
}

// Hash256 computes SHA-256(SHA-256(data)), the double hash Bitcoin uses
// for transaction and block identifiers.
func Hash256(data []byte) []byte {
	first := Sum256(data)
	second := Sum256(first[:])
	return second[:]
}
