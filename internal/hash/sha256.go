// Package hash implements the fingerprint primitives used by the index:
// a SHA-256 engine for exact matching, an average hash for perceptual
// similarity, and a Hamming distance over 64-bit fingerprints.
package hash

import (
	"encoding/binary"
	"encoding/hex"
	gohash "hash"
	"math/bits"
)

const (
	// Size is the length of a SHA-256 digest in bytes.
	Size = 32
	// BlockSize is the SHA-256 block size in bytes.
	BlockSize = 64
)

// Initial hash values: first 32 bits of the fractional parts of the square
// roots of the first 8 primes.
var initial = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Round constants: first 32 bits of the fractional parts of the cube roots of
// the first 64 primes.
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

// digest is a streaming SHA-256 state. It buffers a partial block between
// writes and only pads on Sum, so callers can hash files of any size.
type digest struct {
	h   [8]uint32
	buf [BlockSize]byte
	n   int    // bytes buffered in buf
	len uint64 // total bytes written
}

// New returns a SHA-256 hash.Hash.
func New() gohash.Hash {
	d := &digest{}
	d.Reset()
	return d
}

func (d *digest) Reset() {
	d.h = initial
	d.n = 0
	d.len = 0
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return BlockSize }

// Write never returns an error.
func (d *digest) Write(p []byte) (int, error) {
	written := len(p)
	d.len += uint64(written)

	if d.n > 0 {
		c := copy(d.buf[d.n:], p)
		d.n += c
		p = p[c:]
		if d.n < BlockSize {
			return written, nil
		}
		d.block(d.buf[:])
		d.n = 0
	}

	for len(p) >= BlockSize {
		d.block(p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.n = copy(d.buf[:], p)
	}
	return written, nil
}

// Sum appends the digest to b. The running state is left untouched.
func (d *digest) Sum(b []byte) []byte {
	cp := *d
	sum := cp.finish()
	return append(b, sum[:]...)
}

// finish applies the padding: a single 1 bit, zeros until the length is
// 448 mod 512 bits, then the message length in bits as a big-endian uint64.
func (d *digest) finish() [Size]byte {
	bitLen := d.len * 8

	var pad [BlockSize + 8]byte
	pad[0] = 0x80
	var zeros int
	if rem := d.len % BlockSize; rem < 56 {
		zeros = int(56 - rem)
	} else {
		zeros = int(BlockSize + 56 - rem)
	}
	binary.BigEndian.PutUint64(pad[zeros:], bitLen)
	d.Write(pad[:zeros+8])

	if d.n != 0 {
		panic("sha256: padded message is not a multiple of 512 bits")
	}

	var out [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// block runs the message schedule and the 64 compression rounds over one
// 64-byte block. All additions wrap modulo 2^32.
func (d *digest) block(p []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for i := 16; i < 64; i++ {
		v1 := w[i-2]
		s1 := bits.RotateLeft32(v1, -17) ^ bits.RotateLeft32(v1, -19) ^ (v1 >> 10)
		v2 := w[i-15]
		s0 := bits.RotateLeft32(v2, -7) ^ bits.RotateLeft32(v2, -18) ^ (v2 >> 3)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, dd, e, f, g, h := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4], d.h[5], d.h[6], d.h[7]

	for i := 0; i < 64; i++ {
		S1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		t1 := h + S1 + ch + k[i] + w[i]
		S0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := S0 + maj

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

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(data)
	return d.finish()
}

// SHA256Hex returns the SHA-256 digest of data as 64 lowercase hex characters.
func SHA256Hex(data []byte) string {
	sum := Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ gohash.Hash = (*digest)(nil)
