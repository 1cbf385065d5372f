// Package bridge implements the burn-and-mint bridge of component E:
// L1 burn detection, mint confirmation gathering, and at-most-once
// credit of L2 tokens.
package bridge

import "github.com/cascoin/l2/codec"

// BurnRecord is the registry's authoritative record for one detected
// L1 burn.
type BurnRecord struct {
	L1TxHash      codec.Hash
	L1BlockNumber uint64
	L1BlockHash   codec.Hash
	L2Recipient   codec.Address
	Amount        int64
	L2BlockNumber uint64
	L2TxHash      codec.Hash
	Timestamp     uint64
	Processed     bool
}

// MintConfirmation is one sequencer's signed attestation to a detected
// burn.
type MintConfirmation struct {
	L1TxHash       codec.Hash
	ChainID        uint64
	SequencerAddr  codec.Address
	Amount         int64
	L2Recipient    codec.Address
	Timestamp      uint64
	Signature      []byte
}

func (c MintConfirmation) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Bytes32(c.L1TxHash).U64(c.ChainID).Addr(c.SequencerAddr).
		I64(c.Amount).Addr(c.L2Recipient).U64(c.Timestamp)
	return w.Bytes()
}

// Status is the mint consensus state for one l1_tx_hash.
type Status int

const (
	StatusPending Status = iota
	StatusReached
	StatusMinted
	StatusFailed
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusReached:
		return "REACHED"
	case StatusMinted:
		return "MINTED"
	case StatusFailed:
		return "FAILED"
	case StatusRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// MintConsensusState aggregates every confirmation seen for one
// l1_tx_hash.
type MintConsensusState struct {
	L1TxHash      codec.Hash
	Status        Status
	Amount        int64
	Recipient     codec.Address
	Confirmations map[codec.Address]MintConfirmation
	FirstSeen     uint64
}
