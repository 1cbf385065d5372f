package sequencer

import (
	"bytes"

	"github.com/cascoin/l2/codec"
)

const claimTimestampToleranceSecs = 60

// SlotFailover tracks the failover position and any accepted
// LeadershipClaim for one slot.
type SlotFailover struct {
	Slot         uint64
	Position     uint32
	ActingLeader codec.Address
	bestClaim    *LeadershipClaim
	bestRep      uint32
}

// FailoverTracker owns one SlotFailover per slot currently in flight.
// Not safe for concurrent use; it holds no lock of its own.
type FailoverTracker struct {
	verifier Verifier
	slots    map[uint64]*SlotFailover
}

func NewFailoverTracker(verifier Verifier) *FailoverTracker {
	return &FailoverTracker{verifier: verifier, slots: make(map[uint64]*SlotFailover)}
}

func (f *FailoverTracker) slotState(slot uint64, el Election) *SlotFailover {
	s, ok := f.slots[slot]
	if !ok {
		s = &SlotFailover{Slot: slot, ActingLeader: el.Leader}
		f.slots[slot] = s
	}
	return s
}

// OnLeaderTimeout advances the failover position for slot by one,
// marks the timed-out leader as having missed a block, and asserts the
// next backup as acting leader.
func (f *FailoverTracker) OnLeaderTimeout(slot uint64, el Election, reg *Registry) (codec.Address, bool) {
	s := f.slotState(slot, el)
	reg.RecordBlockMissed(s.ActingLeader)
	s.Position++
	idx := int(s.Position) - 1
	if idx < 0 || idx >= len(el.Backups) {
		return codec.Address{}, false
	}
	s.ActingLeader = el.Backups[idx]
	return s.ActingLeader, true
}

// SubmitClaim validates and records a proactive LeadershipClaim,
// applying the tie-break order when a better claim for the same
// slot already exists.
func (f *FailoverTracker) SubmitClaim(claim LeadershipClaim, now uint64, claimantReputation uint32, claimantPubKey []byte, el Election) error {
	s := f.slotState(claim.Slot, el)
	if claim.FailoverPosition > s.Position+1 {
		return xerr(ErrClaimTooFarAhead, "claim failover position too far ahead of current position")
	}
	if claim.Timestamp > now+claimTimestampToleranceSecs || (now > claim.Timestamp && now-claim.Timestamp > claimTimestampToleranceSecs) {
		return xerr(ErrClaimStale, "claim timestamp outside tolerance window")
	}
	digest := codec.H(claim.SignedPortion())
	if !f.verifier.Verify(claimantPubKey, claim.Signature, digest) {
		return xerr(ErrBadSignature, "claim signature invalid")
	}

	if s.bestClaim != nil && !claimBeats(claim, claimantReputation, *s.bestClaim, s.bestRep) {
		return nil // existing claim wins the tie-break; not an error
	}

	s.bestClaim = &claim
	s.bestRep = claimantReputation
	s.Position = claim.FailoverPosition
	s.ActingLeader = claim.Address
	return nil
}

// claimBeats reports whether candidate beats incumbent under the
// ordering: (1) lower failover_position, (2) higher reputation,
// (3) earlier timestamp, (4) lexicographically lower address.
func claimBeats(candidate LeadershipClaim, candidateRep uint32, incumbent LeadershipClaim, incumbentRep uint32) bool {
	if candidate.FailoverPosition != incumbent.FailoverPosition {
		return candidate.FailoverPosition < incumbent.FailoverPosition
	}
	if candidateRep != incumbentRep {
		return candidateRep > incumbentRep
	}
	if candidate.Timestamp != incumbent.Timestamp {
		return candidate.Timestamp < incumbent.Timestamp
	}
	return bytes.Compare(candidate.Address[:], incumbent.Address[:]) < 0
}

// ActingLeader returns the currently acting leader for slot, if any
// failover has occurred or been claimed.
func (f *FailoverTracker) ActingLeader(slot uint64) (codec.Address, bool) {
	s, ok := f.slots[slot]
	if !ok {
		return codec.Address{}, false
	}
	return s.ActingLeader, true
}
