package bridge

import "github.com/cascoin/l2/codec"

// BurnRegistry tracks detected burns and their processed flag,
// independent of mint consensus.
// Not safe for concurrent use; it holds no lock of its own.
type BurnRegistry struct {
	records map[codec.Hash]*BurnRecord
}

func NewBurnRegistry() *BurnRegistry {
	return &BurnRegistry{records: make(map[codec.Hash]*BurnRecord)}
}

// IsProcessed reports whether l1TxHash already has a completed mint.
func (r *BurnRegistry) IsProcessed(l1TxHash codec.Hash) bool {
	rec, ok := r.records[l1TxHash]
	return ok && rec.Processed
}

// RecordBurn inserts or updates the registry's record for a burn.
// Recording a burn already marked processed is a no-op that returns
// false, never double-applying a mint.
func (r *BurnRegistry) RecordBurn(rec BurnRecord) bool {
	existing, ok := r.records[rec.L1TxHash]
	if ok && existing.Processed {
		return false
	}
	copyRec := rec
	r.records[rec.L1TxHash] = &copyRec
	return true
}

// MarkProcessed flips the processed flag when a mint is applied;
// ApplyMint calls it right after crediting the recipient, before the
// containing block finalizes.
func (r *BurnRegistry) MarkProcessed(l1TxHash codec.Hash, l2BlockNumber uint64, l2TxHash codec.Hash) bool {
	rec, ok := r.records[l1TxHash]
	if !ok || rec.Processed {
		return false
	}
	rec.Processed = true
	rec.L2BlockNumber = l2BlockNumber
	rec.L2TxHash = l2TxHash
	return true
}

// UnmarkProcessed reverts the processed flag, used when a snapshot
// rollback undoes the block that had minted this burn.
func (r *BurnRegistry) UnmarkProcessed(l1TxHash codec.Hash) {
	if rec, ok := r.records[l1TxHash]; ok {
		rec.Processed = false
		rec.L2BlockNumber = 0
		rec.L2TxHash = codec.Hash{}
	}
}

// Get returns the registry's record for l1TxHash.
func (r *BurnRegistry) Get(l1TxHash codec.Hash) (BurnRecord, bool) {
	rec, ok := r.records[l1TxHash]
	if !ok {
		return BurnRecord{}, false
	}
	return *rec, true
}
