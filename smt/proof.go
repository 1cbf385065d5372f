package smt

import "github.com/cascoin/l2/codec"

// Proof is a Merkle inclusion or exclusion proof.
type Proof struct {
	Key         codec.Hash
	Value       []byte
	IsInclusion bool
	Siblings    [Depth]codec.Hash
	Path        [Depth]byte
	LeafHash    codec.Hash
}

// walk produces the sibling/path arrays for key against the subtree
// rooted at n/depth, and reports whether key is present.
func walk(n *node, key codec.Hash, depth int, siblings *[Depth]codec.Hash, path *[Depth]byte) (isInclusion bool, value []byte) {
	switch {
	case n == nil || n.kindOf == kindEmpty:
		fillDefault(key, depth, siblings, path)
		return false, nil

	case n.kindOf == kindLeaf:
		if n.key == key {
			fillDefault(key, depth, siblings, path)
			return true, n.value
		}
		for d := depth; d < Depth; d++ {
			bk := codec.BitAt(key, d)
			bl := codec.BitAt(n.key, d)
			path[d] = bk
			if bk == bl {
				siblings[d] = defaultHash[d+1]
				continue
			}
			siblings[d] = collapseLeafHash(n.key, n.value, d+1)
			for dd := d + 1; dd < Depth; dd++ {
				path[dd] = codec.BitAt(key, dd)
				siblings[dd] = defaultHash[dd+1]
			}
			return false, nil
		}
		// Unreachable: two distinct 256-bit keys always diverge within
		// [depth, Depth).
		return false, nil

	default: // kindInner
		bit := codec.BitAt(key, depth)
		path[depth] = bit
		if bit == 0 {
			siblings[depth] = subtreeHash(n.right, depth+1)
			return walk(n.left, key, depth+1, siblings, path)
		}
		siblings[depth] = subtreeHash(n.left, depth+1)
		return walk(n.right, key, depth+1, siblings, path)
	}
}

func fillDefault(key codec.Hash, fromDepth int, siblings *[Depth]codec.Hash, path *[Depth]byte) {
	for d := fromDepth; d < Depth; d++ {
		path[d] = codec.BitAt(key, d)
		siblings[d] = defaultHash[d+1]
	}
}

// VerifyProof reconstructs the root implied by proof and compares it to
// expectedRoot. Any single-bit mutation of root, value, siblings, or path
// flips the result to false.
func VerifyProof(proof Proof, expectedRoot codec.Hash, key codec.Hash, value []byte) bool {
	if proof.Key != key {
		return false
	}
	for d := 0; d < Depth; d++ {
		if proof.Path[d] != codec.BitAt(key, d) {
			return false
		}
	}

	var h codec.Hash
	if proof.IsInclusion {
		h = leafHash(key, value)
		if h != proof.LeafHash {
			return false
		}
	} else {
		if len(value) != 0 {
			return false
		}
		h = DefaultLeafHash()
		if h != proof.LeafHash {
			return false
		}
	}

	for d := Depth - 1; d >= 0; d-- {
		sib := proof.Siblings[d]
		if proof.Path[d] == 0 {
			h = codec.H(h[:], sib[:])
		} else {
			h = codec.H(sib[:], h[:])
		}
	}
	return h == expectedRoot
}
