// Package blockconsensus implements the propose/vote block finalization
// state machine of component D.
package blockconsensus

import "github.com/cascoin/l2/codec"

type State int

const (
	StateIdle State = iota
	StateAwaitingVotes
	StateFinalized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaitingVotes:
		return "AWAITING_VOTES"
	case StateFinalized:
		return "FINALIZED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

type Vote int

const (
	VoteAccept Vote = iota
	VoteReject
	VoteAbstain
)

type RejectReason string

const (
	ReasonParent    RejectReason = "parent"
	ReasonRoot      RejectReason = "root"
	ReasonTxOrder   RejectReason = "tx-order"
	ReasonGas       RejectReason = "gas"
	ReasonSignature RejectReason = "signature"
	ReasonTimestamp RejectReason = "timestamp"
	ReasonOther     RejectReason = "other"
)

// BlockProposal is the leader's signed proposal for one slot.
// L1RefTimestamp is the timestamp of the L1 block this proposal is
// anchored to (the block its l1_anchor_block refers to), used to
// bound the proposal's own Timestamp against L1 time.
type BlockProposal struct {
	BlockNumber      uint64
	ParentHash       codec.Hash
	StateRoot        codec.Hash
	TransactionsRoot codec.Hash
	TxHashes         []codec.Hash
	ProposerAddress  codec.Address
	Timestamp        uint64
	ProposerSig      []byte
	ChainID          uint64
	GasLimit         uint64
	GasUsed          uint64
	SlotNumber       uint64
	L1RefTimestamp   uint64
}

// Hash is the block's identity hash, used as the BlockHash field in
// votes and as the next block's ParentHash.
func (p BlockProposal) Hash() codec.Hash {
	return codec.H(p.SignedPortion())
}

// SignedPortion is every declared field in order excluding the
// signature.
func (p BlockProposal) SignedPortion() []byte {
	w := codec.NewWriter()
	w.U64(p.BlockNumber).Bytes32(p.ParentHash).Bytes32(p.StateRoot).Bytes32(p.TransactionsRoot)
	w.U32(uint32(len(p.TxHashes)))
	for _, h := range p.TxHashes {
		w.Bytes32(h)
	}
	w.Addr(p.ProposerAddress).U64(p.Timestamp).U64(p.ChainID).
		U64(p.GasLimit).U64(p.GasUsed).U64(p.SlotNumber).U64(p.L1RefTimestamp)
	return w.Bytes()
}

// SequencerVote is a signed vote on one block hash.
type SequencerVote struct {
	BlockHash    codec.Hash
	VoterAddress codec.Address
	Choice       Vote
	RejectReason RejectReason
	Signature    []byte
	Timestamp    uint64
	SlotNumber   uint64
}

func (v SequencerVote) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Bytes32(v.BlockHash).Addr(v.VoterAddress).U8(uint8(v.Choice)).
		VarString(string(v.RejectReason)).U64(v.Timestamp).U64(v.SlotNumber)
	return w.Bytes()
}
