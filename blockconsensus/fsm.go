package blockconsensus

import (
	"github.com/cascoin/l2/codec"
)

// Verifier is the narrow signature-checking surface needed here;
// satisfied by crypto.Provider.
type Verifier interface {
	Verify(pubKey []byte, sig []byte, digest codec.Hash) bool
}

// WeightSet is a snapshot of the currently eligible sequencer set's
// voting weights, supplied by the caller (component C) at the start of
// a slot so finalization math never reaches back into the registry
// mid-vote.
type WeightSet struct {
	Weights map[codec.Address]uint64
	Total   uint64
}

// Config parameterizes timeouts and the finalization threshold.
// FutureToleranceSecs and L1TimestampToleranceSecs together implement
// the accepted-block timestamp invariant: strictly monotonic against
// the previous block, within L1TimestampToleranceSecs of the
// referenced L1 block's timestamp, and no more than
// FutureToleranceSecs above the validator's own clock.
type Config struct {
	ChainID                  uint64
	VoteTimeoutSecs          uint64
	FutureToleranceSecs      uint64
	L1TimestampToleranceSecs uint64
	ConsensusNumerator       uint64 // 2 of 2/3
	ConsensusDenominator     uint64 // 3 of 2/3
}

func DefaultConfig(chainID uint64) Config {
	return Config{
		ChainID:                  chainID,
		VoteTimeoutSecs:          10,
		FutureToleranceSecs:      30,
		L1TimestampToleranceSecs: 15 * 60,
		ConsensusNumerator:       2,
		ConsensusDenominator:     3,
	}
}

// SlotConsensus is the per-slot state machine instance.
type SlotConsensus struct {
	Slot          uint64
	State         State
	Proposal      *BlockProposal
	Votes         map[codec.Address]SequencerVote
	AcceptWeight  uint64
	RejectWeight  uint64
	AwaitingSince uint64
	Equivocations []BlockProposal
}

func NewSlotConsensus(slot uint64) *SlotConsensus {
	return &SlotConsensus{Slot: slot, State: StateIdle, Votes: make(map[codec.Address]SequencerVote)}
}

// Coordinator runs proposal/vote validation and threshold checks
// across slots; holds no per-slot state itself so callers may keep one
// Coordinator for the whole node lifetime.
type Coordinator struct {
	cfg      Config
	verifier Verifier
}

func NewCoordinator(cfg Config, verifier Verifier) *Coordinator {
	return &Coordinator{cfg: cfg, verifier: verifier}
}

func absDiffU64(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// SubmitProposal validates p and, on success, transitions sc from IDLE
// to AWAITING_VOTES. acceptedLeader is whichever address is
// currently authorized to propose for this slot — the elected leader
// or an accepted failover claimant. prevTimestamp is the timestamp of
// block p.BlockNumber-1 (ignored for the genesis block), supplied by
// the caller since the Coordinator holds no per-chain state of its
// own.
func (c *Coordinator) SubmitProposal(sc *SlotConsensus, p BlockProposal, proposerPubKey []byte, now uint64, acceptedLeader codec.Address, prevTimestamp uint64) error {
	if sc.State != StateIdle {
		if sc.Proposal != nil && sc.Proposal.ProposerAddress == p.ProposerAddress && sc.Proposal.Hash() != p.Hash() {
			sc.Equivocations = append(sc.Equivocations, p)
			return xerr(ErrEquivocation, "second distinct proposal from same proposer for this slot")
		}
		return xerr(ErrWrongState, "slot is not awaiting a proposal")
	}
	if p.SlotNumber != sc.Slot {
		return xerr(ErrWrongSlot, "proposal slot does not match")
	}
	if p.ChainID != c.cfg.ChainID {
		return xerr(ErrWrongSlot, "chain id mismatch")
	}
	if p.BlockNumber > 0 && p.ParentHash.IsZero() {
		return xerr(ErrBadParent, "non-genesis block must reference a parent hash")
	}
	if p.Timestamp > now+c.cfg.FutureToleranceSecs {
		return xerr(ErrBadTimestamp, "proposal timestamp too far in the future")
	}
	if p.BlockNumber > 0 && p.Timestamp <= prevTimestamp {
		return xerr(ErrBadTimestamp, "proposal timestamp is not strictly greater than the previous block's")
	}
	if absDiffU64(p.Timestamp, p.L1RefTimestamp) > c.cfg.L1TimestampToleranceSecs {
		return xerr(ErrBadTimestamp, "proposal timestamp is too far from the referenced L1 block's timestamp")
	}
	if p.GasUsed > p.GasLimit {
		return xerr(ErrGasExceeded, "gas_used exceeds gas_limit")
	}
	if p.ProposerAddress.IsZero() {
		return xerr(ErrBadProposer, "proposer address must be set")
	}
	if p.ProposerAddress != acceptedLeader {
		return xerr(ErrBadProposer, "proposer is not the elected leader or an accepted failover claimant")
	}
	digest := codec.H(p.SignedPortion())
	if !c.verifier.Verify(proposerPubKey, p.ProposerSig, digest) {
		return xerr(ErrBadSignature, "proposal signature invalid")
	}

	proposal := p
	sc.Proposal = &proposal
	sc.State = StateAwaitingVotes
	sc.AwaitingSince = now
	return nil
}

// SubmitVote validates and applies a vote, recomputing weighted totals
// and transitioning sc to FINALIZED or FAILED when a threshold is
// crossed. Votes from the same voter update in place only
// if strictly newer.
func (c *Coordinator) SubmitVote(sc *SlotConsensus, v SequencerVote, voterPubKey []byte, weights WeightSet) error {
	if sc.State != StateAwaitingVotes {
		return xerr(ErrWrongState, "slot is not awaiting votes")
	}
	if sc.Proposal == nil || sc.Proposal.Hash() != v.BlockHash {
		return xerr(ErrWrongState, "vote does not reference the active proposal")
	}
	digest := codec.H(v.SignedPortion())
	if !c.verifier.Verify(voterPubKey, v.Signature, digest) {
		return xerr(ErrBadSignature, "vote signature invalid")
	}

	if existing, ok := sc.Votes[v.VoterAddress]; ok {
		if v.Timestamp <= existing.Timestamp {
			return nil // idempotent replay / stale re-vote
		}
		sc.unapplyWeight(existing, weights)
	}
	sc.Votes[v.VoterAddress] = v
	sc.applyWeight(v, weights)

	c.evaluateThresholds(sc, weights)
	return nil
}

func (sc *SlotConsensus) applyWeight(v SequencerVote, weights WeightSet) {
	w := weights.Weights[v.VoterAddress]
	switch v.Choice {
	case VoteAccept:
		sc.AcceptWeight += w
	case VoteReject:
		sc.RejectWeight += w
	}
}

func (sc *SlotConsensus) unapplyWeight(v SequencerVote, weights WeightSet) {
	w := weights.Weights[v.VoterAddress]
	switch v.Choice {
	case VoteAccept:
		sc.AcceptWeight -= w
	case VoteReject:
		sc.RejectWeight -= w
	}
}

func (c *Coordinator) evaluateThresholds(sc *SlotConsensus, weights WeightSet) {
	if weights.Total == 0 {
		return
	}
	// AcceptWeight * denom >= Total * numerator  <=>  AcceptWeight/Total >= numerator/denom
	if sc.AcceptWeight*c.cfg.ConsensusDenominator >= weights.Total*c.cfg.ConsensusNumerator {
		sc.State = StateFinalized
		return
	}
	// RejectWeight alone exceeds 1/3: RejectWeight*3 > Total
	if sc.RejectWeight*3 > weights.Total {
		sc.State = StateFailed
	}
}

// CheckTimeout fails sc if the vote timeout has expired without
// reaching the accept threshold. Returns whether a transition
// occurred.
func (c *Coordinator) CheckTimeout(sc *SlotConsensus, now uint64) bool {
	if sc.State != StateAwaitingVotes {
		return false
	}
	if now < sc.AwaitingSince || now-sc.AwaitingSince < c.cfg.VoteTimeoutSecs {
		return false
	}
	sc.State = StateFailed
	return true
}
