// Package codec implements the deterministic serialization and hashing
// rules shared by every authenticated structure in the rollup: fixed
// little-endian integers, varint-length-prefixed byte vectors, and the
// double-SHA-256 hash function.
package codec

import (
	"crypto/sha256"
)

// HashSize is the width in bytes of every hash used in authenticated
// structures (SMT node hashes, block hashes, signed-message digests).
const HashSize = 32

// AddressSize is the width in bytes of a sequencer/account address.
const AddressSize = 20

type Hash [HashSize]byte

type Address [AddressSize]byte

// H is the sole hash function used in authenticated structures: double
// SHA-256, Bitcoin style.
func H(data ...[]byte) Hash {
	var total int
	for _, d := range data {
		total += len(d)
	}
	buf := make([]byte, 0, total)
	for _, d := range data {
		buf = append(buf, d...)
	}
	first := sha256.Sum256(buf)
	return Hash(sha256.Sum256(first[:]))
}

func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (a Address) Bytes() []byte {
	out := make([]byte, AddressSize)
	copy(out, a[:])
	return out
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// BitAt returns the bit at depth d of a 256-bit key, 0 = MSB of the first
// byte, matching the SMT's key-bit convention.
func BitAt(key Hash, d int) byte {
	byteIdx := d / 8
	bitIdx := 7 - uint(d%8)
	return (key[byteIdx] >> bitIdx) & 1
}
