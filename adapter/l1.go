// Package adapter defines the two boundary interfaces the rollup
// depends on but does not implement: the pull-based L1 observation
// feed and the push/pull message transport.
package adapter

import "github.com/cascoin/l2/codec"

// L1Tx is one transaction observed in an L1 block, opaque beyond what
// burn-marker decoding needs.
type L1Tx struct {
	TxHash      codec.Hash
	Outputs     [][]byte // raw output scripts, in order
	OutputValue []int64  // value of each output, parallel to Outputs
}

// L1Block is one finalized L1 block as seen by the adapter.
type L1Block struct {
	Number    uint64
	Hash      codec.Hash
	Timestamp uint64
	Txs       []L1Tx
}

// L1Adapter provides pull access to the L1 chain in ascending block
// order and signals finality once a block reaches the configured
// confirmation depth.
type L1Adapter interface {
	// BlockAt returns the L1 block at the given height, or ok=false if
	// the adapter has not observed it yet.
	BlockAt(number uint64) (L1Block, bool)

	// Tip returns the highest L1 block number the adapter has observed.
	Tip() uint64

	// IsFinal reports whether the block at number has reached at least
	// requiredConfirmations confirmations given the current tip.
	IsFinal(number uint64, requiredConfirmations uint64) bool
}
