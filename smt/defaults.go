package smt

import "github.com/cascoin/l2/codec"

// Depth is the fixed tree depth: one bit of the 256-bit key consumed per
// level.
const Depth = 256

// MaxValueSize bounds a leaf's value bytes. The data model never needs
// more than an encoded AccountState or storage word here; this is a
// sanity cap, not a protocol limit.
const MaxValueSize = 1 << 20

// defaultHash[d] is the hash of an empty subtree rooted at depth d, for
// d in [0, Depth]. defaultHash[Depth] is the default (empty-value) leaf
// hash; defaultHash[d] = H(defaultHash[d+1], defaultHash[d+1]) for d < Depth.
// Building this table once makes every empty-subtree contribution O(1)
// to compute instead of recursed on every proof and root call.
var defaultHash [Depth + 1]codec.Hash

func init() {
	var zeroKey codec.Hash
	defaultHash[Depth] = leafHash(zeroKey, nil)
	for d := Depth - 1; d >= 0; d-- {
		defaultHash[d] = codec.H(defaultHash[d+1][:], defaultHash[d+1][:])
	}
}

// DefaultLeafHash is the canonical hash representing "no value at this
// key" — the leaf_hash carried by an exclusion proof.
func DefaultLeafHash() codec.Hash { return defaultHash[Depth] }

// leafHash computes H(0x00 ‖ key ‖ value), the tree's leaf encoding.
func leafHash(key codec.Hash, value []byte) codec.Hash {
	return codec.H([]byte{0x00}, key[:], value)
}

// collapseLeafHash folds a single leaf's hash up from Depth to the given
// depth, combining with the default (empty) sibling hash at each
// intervening level. This is what lets a compressed single-leaf subtree
// be hashed in O(Depth-depth) instead of materializing every level.
func collapseLeafHash(key codec.Hash, value []byte, depth int) codec.Hash {
	h := leafHash(key, value)
	for d := Depth - 1; d >= depth; d-- {
		sib := defaultHash[d+1]
		if codec.BitAt(key, d) == 0 {
			h = codec.H(h[:], sib[:])
		} else {
			h = codec.H(sib[:], h[:])
		}
	}
	return h
}
