// Package smt implements the 256-bit Sparse Merkle Tree that authenticates
// the rollup's account and per-contract storage state (component A,,
//). Root computation is lazy and cached at every internal node;
// mutation invalidates only the cached hashes along the touched path, so
// a single-leaf update costs O(Depth) hashes rather than a full tree walk.
package smt

import "github.com/cascoin/l2/codec"

// Tree is not safe for concurrent use; it holds no lock of its own.
type Tree struct {
	root      *node
	size      int
	rootCache *codec.Hash
}

func New() *Tree {
	return &Tree{root: emptyNode}
}

// Get returns the value stored at key, or nil if key is absent (absence
// is not an error).
func (t *Tree) Get(key codec.Hash) []byte {
	v, _ := get(t.root, key, 0)
	return v
}

// Exists reports whether key currently has a non-empty value.
func (t *Tree) Exists(key codec.Hash) bool {
	_, ok := get(t.root, key, 0)
	return ok
}

// Set stores value at key. Setting an empty value is equivalent to Delete.
func (t *Tree) Set(key codec.Hash, value []byte) error {
	if len(value) > MaxValueSize {
		return xerr(ErrValueTooLong, "value exceeds maximum leaf size")
	}
	existed := t.Exists(key)
	t.root = set(t.root, key, value, 0)
	nowExists := len(value) != 0
	switch {
	case !existed && nowExists:
		t.size++
	case existed && !nowExists:
		t.size--
	}
	t.rootCache = nil
	return nil
}

// Delete removes key, returning whether it had been present.
func (t *Tree) Delete(key codec.Hash) bool {
	existed := t.Exists(key)
	if existed {
		t.root = set(t.root, key, nil, 0)
		t.size--
		t.rootCache = nil
	}
	return existed
}

// Root returns the current root hash, recomputing (and caching) it if the
// tree has been mutated since the last call.
func (t *Tree) Root() codec.Hash {
	if t.rootCache != nil {
		return *t.rootCache
	}
	h := subtreeHash(t.root, 0)
	t.rootCache = &h
	return h
}

// Size returns the number of present (non-empty) leaves.
func (t *Tree) Size() int {
	return t.size
}

// GenerateInclusionProof produces a proof for a present key. It returns
// ErrKeyNotFound if key is absent.
func (t *Tree) GenerateInclusionProof(key codec.Hash) (Proof, error) {
	p := t.generateProof(key)
	if !p.IsInclusion {
		return Proof{}, xerr(ErrKeyNotFound, "key not present")
	}
	return p, nil
}

// GenerateExclusionProof produces a proof that key is absent. It returns
// an error if key is in fact present.
func (t *Tree) GenerateExclusionProof(key codec.Hash) (Proof, error) {
	p := t.generateProof(key)
	if p.IsInclusion {
		return Proof{}, xerr(ErrBadProof, "key is present; exclusion proof not applicable")
	}
	return p, nil
}

func (t *Tree) generateProof(key codec.Hash) Proof {
	var p Proof
	p.Key = key
	isInclusion, value := walk(t.root, key, 0, &p.Siblings, &p.Path)
	p.IsInclusion = isInclusion
	if isInclusion {
		p.Value = value
		p.LeafHash = leafHash(key, value)
	} else {
		p.LeafHash = DefaultLeafHash()
	}
	return p
}

// Clone returns a deep-enough copy of the tree for snapshotting: the node
// graph is shared (nodes are never mutated in place; set/split/collapse
// always return a replacement), so cloning is O(1) and safe as long as the
// original is likewise only ever mutated through Set/Delete.
func (t *Tree) Clone() *Tree {
	clone := &Tree{root: t.root, size: t.size}
	if t.rootCache != nil {
		h := *t.rootCache
		clone.rootCache = &h
	}
	return clone
}
