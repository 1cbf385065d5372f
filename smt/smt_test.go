package smt

import (
	"testing"

	"github.com/cascoin/l2/codec"
)

func keyFromByte(b byte) codec.Hash {
	var k codec.Hash
	k[0] = b
	return k
}

// S1 — single-leaf proof.
func TestSingleLeafProof(t *testing.T) {
	tree := New()
	key := keyFromByte(0x01)
	value := []byte{7, 7, 7}

	if err := tree.Set(key, value); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tree.Size() != 1 {
		t.Fatalf("expected size 1, got %d", tree.Size())
	}
	root := tree.Root()
	if root == (codec.Hash{}) {
		t.Fatalf("expected non-zero root")
	}
	var empty Tree
	if root == subtreeHash(empty.root, 0) {
		t.Fatalf("root must differ from the empty-tree root")
	}

	proof, err := tree.GenerateInclusionProof(key)
	if err != nil {
		t.Fatalf("generate proof: %v", err)
	}
	if !VerifyProof(proof, root, key, value) {
		t.Fatalf("expected inclusion proof to verify")
	}
}

// Inclusion/exclusion proofs verify, and single-bit mutation flips
// the result.
func TestProofMutationFlipsVerification(t *testing.T) {
	tree := New()
	keys := []codec.Hash{keyFromByte(0x01), keyFromByte(0x02), keyFromByte(0xff)}
	for i, k := range keys {
		if err := tree.Set(k, []byte{byte(i + 1)}); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	root := tree.Root()

	proof, err := tree.GenerateInclusionProof(keys[0])
	if err != nil {
		t.Fatalf("generate proof: %v", err)
	}
	if !VerifyProof(proof, root, keys[0], []byte{1}) {
		t.Fatalf("expected valid proof to verify")
	}

	mutatedRoot := root
	mutatedRoot[0] ^= 0x01
	if VerifyProof(proof, mutatedRoot, keys[0], []byte{1}) {
		t.Fatalf("mutated root must not verify")
	}

	mutatedValue := []byte{2}
	if VerifyProof(proof, root, keys[0], mutatedValue) {
		t.Fatalf("mutated value must not verify")
	}

	mutatedProof := proof
	mutatedProof.Siblings[10][0] ^= 0x01
	if VerifyProof(mutatedProof, root, keys[0], []byte{1}) {
		t.Fatalf("mutated sibling must not verify")
	}

	mutatedProof2 := proof
	mutatedProof2.Path[0] ^= 0x01
	if VerifyProof(mutatedProof2, root, keys[0], []byte{1}) {
		t.Fatalf("mutated path must not verify")
	}

	// Exclusion proof for an absent key.
	absent := keyFromByte(0x03)
	excl, err := tree.GenerateExclusionProof(absent)
	if err != nil {
		t.Fatalf("generate exclusion proof: %v", err)
	}
	if !VerifyProof(excl, root, absent, nil) {
		t.Fatalf("expected exclusion proof to verify")
	}
	if excl.LeafHash != DefaultLeafHash() {
		t.Fatalf("exclusion proof leaf hash must be the default leaf hash")
	}
}

// Determinism: insertion order does not affect the resulting root.
func TestRootOrderIndependent(t *testing.T) {
	a, b := keyFromByte(0x10), keyFromByte(0x20)
	valA, valB := []byte("x"), []byte("y")

	t1 := New()
	_ = t1.Set(a, valA)
	_ = t1.Set(b, valB)

	t2 := New()
	_ = t2.Set(b, valB)
	_ = t2.Set(a, valA)

	if t1.Root() != t2.Root() {
		t.Fatalf("root must be independent of insertion order")
	}
}

func TestDeleteViaEmptyValue(t *testing.T) {
	tree := New()
	key := keyFromByte(0x42)
	_ = tree.Set(key, []byte("hi"))
	if !tree.Exists(key) {
		t.Fatalf("expected key to exist")
	}
	if err := tree.Set(key, nil); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if tree.Exists(key) {
		t.Fatalf("expected key to be removed by empty-value set")
	}
	if tree.Size() != 0 {
		t.Fatalf("expected size 0 after delete, got %d", tree.Size())
	}
	if tree.Root() != subtreeHash(emptyNode, 0) {
		t.Fatalf("root must return to the empty-tree root")
	}
}

func TestDeleteReturnsWhetherPresent(t *testing.T) {
	tree := New()
	key := keyFromByte(0x07)
	if tree.Delete(key) {
		t.Fatalf("deleting an absent key must return false")
	}
	_ = tree.Set(key, []byte("v"))
	if !tree.Delete(key) {
		t.Fatalf("deleting a present key must return true")
	}
}

func TestManyLeavesRootStable(t *testing.T) {
	tree := New()
	for i := 0; i < 200; i++ {
		var k codec.Hash
		k[0] = byte(i)
		k[1] = byte(i * 7)
		if err := tree.Set(k, []byte{byte(i)}); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	if tree.Size() != 200 {
		t.Fatalf("expected 200 leaves, got %d", tree.Size())
	}
	root1 := tree.Root()
	root2 := tree.Root()
	if root1 != root2 {
		t.Fatalf("root must be stable across repeated calls with no mutation")
	}
	for i := 0; i < 200; i++ {
		var k codec.Hash
		k[0] = byte(i)
		k[1] = byte(i * 7)
		proof, err := tree.GenerateInclusionProof(k)
		if err != nil {
			t.Fatalf("proof %d: %v", i, err)
		}
		if !VerifyProof(proof, root1, k, []byte{byte(i)}) {
			t.Fatalf("proof %d failed to verify", i)
		}
	}
}
