package smt

import "github.com/cascoin/l2/codec"

type kind uint8

const (
	kindEmpty kind = iota
	kindLeaf
	kindInner
)

// node is a compressed sparse-Merkle-tree node: a subtree with exactly
// one non-default leaf is stored as a single kindLeaf node rather than a
// chain of Depth single-child inner nodes, bounding tree size to O(size())
// instead of O(2^256).
type node struct {
	kindOf kind

	key   codec.Hash // kindLeaf
	value []byte     // kindLeaf

	left, right *node // kindInner

	cached    codec.Hash // kindInner memoization
	cachedSet bool
}

var emptyNode = &node{kindOf: kindEmpty}

func newLeaf(key codec.Hash, value []byte) *node {
	return &node{kindOf: kindLeaf, key: key, value: value}
}

// subtreeHash returns the hash of this node's subtree, given that it is
// rooted at the supplied depth.
func subtreeHash(n *node, depth int) codec.Hash {
	if n == nil || n.kindOf == kindEmpty {
		return defaultHash[depth]
	}
	if n.kindOf == kindLeaf {
		return collapseLeafHash(n.key, n.value, depth)
	}
	if n.cachedSet {
		return n.cached
	}
	l := subtreeHash(n.left, depth+1)
	r := subtreeHash(n.right, depth+1)
	h := codec.H(l[:], r[:])
	n.cached = h
	n.cachedSet = true
	return h
}

// set inserts, updates, or (on empty value) deletes key within the
// subtree rooted at n/depth, returning the replacement node.
func set(n *node, key codec.Hash, value []byte, depth int) *node {
	empty := len(value) == 0

	if n == nil || n.kindOf == kindEmpty {
		if empty {
			return emptyNode
		}
		return newLeaf(key, value)
	}

	if n.kindOf == kindLeaf {
		if n.key == key {
			if empty {
				return emptyNode
			}
			return newLeaf(key, value)
		}
		if empty {
			return n // deleting an absent key is a no-op
		}
		return split(n.key, n.value, key, value, depth)
	}

	// kindInner
	var next node
	next.kindOf = kindInner
	if codec.BitAt(key, depth) == 0 {
		next.left = set(n.left, key, value, depth+1)
		next.right = n.right
	} else {
		next.left = n.left
		next.right = set(n.right, key, value, depth+1)
	}
	return collapse(&next)
}

// split materializes the divergence point between two distinct leaves,
// creating one inner node per shared prefix bit.
func split(keyA codec.Hash, valA []byte, keyB codec.Hash, valB []byte, depth int) *node {
	bitA := codec.BitAt(keyA, depth)
	bitB := codec.BitAt(keyB, depth)

	if bitA != bitB {
		n := &node{kindOf: kindInner}
		leafA := newLeaf(keyA, valA)
		leafB := newLeaf(keyB, valB)
		if bitA == 0 {
			n.left, n.right = leafA, leafB
		} else {
			n.left, n.right = leafB, leafA
		}
		return n
	}

	child := split(keyA, valA, keyB, valB, depth+1)
	n := &node{kindOf: kindInner}
	if bitA == 0 {
		n.left, n.right = child, emptyNode
	} else {
		n.left, n.right = emptyNode, child
	}
	return n
}

// collapse re-compresses an inner node back into a leaf or empty node
// after a deletion leaves one side empty.
func collapse(n *node) *node {
	leftEmpty := n.left == nil || n.left.kindOf == kindEmpty
	rightEmpty := n.right == nil || n.right.kindOf == kindEmpty
	if leftEmpty && rightEmpty {
		return emptyNode
	}
	if leftEmpty && n.right.kindOf == kindLeaf {
		return n.right
	}
	if rightEmpty && n.left.kindOf == kindLeaf {
		return n.left
	}
	return n
}

// get returns the value stored at key within the subtree, and whether it
// was found.
func get(n *node, key codec.Hash, depth int) ([]byte, bool) {
	if n == nil || n.kindOf == kindEmpty {
		return nil, false
	}
	if n.kindOf == kindLeaf {
		if n.key == key {
			return n.value, true
		}
		return nil, false
	}
	if codec.BitAt(key, depth) == 0 {
		return get(n.left, key, depth+1)
	}
	return get(n.right, key, depth+1)
}

// countLeaves walks the (compressed) subtree counting stored leaves.
// Size() does not call it: Tree tracks an incremental counter instead,
// and nothing in the package calls countLeaves.
func countLeaves(n *node) int {
	if n == nil || n.kindOf == kindEmpty {
		return 0
	}
	if n.kindOf == kindLeaf {
		return 1
	}
	return countLeaves(n.left) + countLeaves(n.right)
}
