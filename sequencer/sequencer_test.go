package sequencer

import (
	"testing"

	"github.com/cascoin/l2/codec"
)

type fakeVerifier struct{ ok bool }

func (f fakeVerifier) Verify(pubKey, sig []byte, digest codec.Hash) bool { return f.ok }

func addr(b byte) codec.Address {
	var a codec.Address
	a[codec.AddressSize-1] = b
	return a
}

func TestWeightZeroWhenHatScoreZero(t *testing.T) {
	if w := Weight(0, 1_000_000); w != 0 {
		t.Fatalf("expected zero weight, got %d", w)
	}
}

func TestWeightCeilSqrt(t *testing.T) {
	// sqrt(10) = 3.16..., ceil = 4
	if w := Weight(1, 10); w != 4 {
		t.Fatalf("expected weight 4, got %d", w)
	}
	// perfect square: sqrt(9) = 3 exactly, ceil = 3
	if w := Weight(2, 9); w != 6 {
		t.Fatalf("expected weight 6, got %d", w)
	}
}

func TestHandleAnnounceAcceptsAndUpdates(t *testing.T) {
	reg := NewRegistry(DefaultConfig(1), fakeVerifier{ok: true})
	a := Announce{Address: addr(1), Stake: 10, HatScore: 5, PeerCount: 2, ChainID: 1, Timestamp: 100}
	if err := reg.HandleAnnounce(a, 100); err != nil {
		t.Fatalf("announce: %v", err)
	}
	info, ok := reg.Get(addr(1))
	if !ok || !info.IsEligible {
		t.Fatalf("expected eligible sequencer registered: %+v ok=%v", info, ok)
	}

	// Stale replay (same timestamp) must not regress state.
	stale := a
	stale.Stake = 999
	if err := reg.HandleAnnounce(stale, 100); err != nil {
		t.Fatalf("stale announce: %v", err)
	}
	info, _ = reg.Get(addr(1))
	if info.Stake != 10 {
		t.Fatalf("expected stale replay ignored, got stake %d", info.Stake)
	}

	// Newer timestamp updates.
	newer := a
	newer.Stake = 50
	newer.Timestamp = 200
	if err := reg.HandleAnnounce(newer, 200); err != nil {
		t.Fatalf("newer announce: %v", err)
	}
	info, _ = reg.Get(addr(1))
	if info.Stake != 50 {
		t.Fatalf("expected updated stake 50, got %d", info.Stake)
	}
}

func TestHandleAnnounceRejectsBadChainID(t *testing.T) {
	reg := NewRegistry(DefaultConfig(1), fakeVerifier{ok: true})
	a := Announce{Address: addr(1), ChainID: 2, Timestamp: 100}
	if err := reg.HandleAnnounce(a, 100); err == nil {
		t.Fatalf("expected chain id mismatch error")
	}
}

func TestHandleAnnounceRejectsBadSignature(t *testing.T) {
	reg := NewRegistry(DefaultConfig(1), fakeVerifier{ok: false})
	a := Announce{Address: addr(1), ChainID: 1, Timestamp: 100}
	if err := reg.HandleAnnounce(a, 100); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestVerificationAfterThreeAttestations(t *testing.T) {
	reg := NewRegistry(DefaultConfig(1), fakeVerifier{ok: true})
	target := addr(1)
	_ = reg.HandleAnnounce(Announce{Address: target, ChainID: 1, Timestamp: 10, HatScore: 1, Stake: 1, PeerCount: 1}, 10)
	for i, attester := range []codec.Address{addr(2), addr(3), addr(4)} {
		_ = reg.HandleAnnounce(Announce{Address: attester, ChainID: 1, Timestamp: 10, HatScore: 1, Stake: 1, PeerCount: 1}, 10)
		att := Attestation{Sequencer: target, Attester: attester, AttestedHat: 10, AttestedStake: 100, Timestamp: uint64(10 + i)}
		if err := reg.HandleAttestation(att, 20); err != nil {
			t.Fatalf("attestation %d: %v", i, err)
		}
	}
	info, _ := reg.Get(target)
	if !info.IsVerified {
		t.Fatalf("expected target verified after 3 distinct attestations")
	}
	if info.VerifiedHatScore != 10 || info.VerifiedStake != 100 {
		t.Fatalf("unexpected verified values: %+v", info)
	}
}

func TestElectLeaderSingleCandidate(t *testing.T) {
	candidates := []Info{{Address: addr(1), HatScore: 1, Stake: 1}}
	el := ElectLeader(0, 10, candidates, codec.H([]byte("seed")), 10)
	if !el.HasLeader || el.Leader != addr(1) {
		t.Fatalf("expected singleton candidate to be leader")
	}
}

func TestElectLeaderDeterministic(t *testing.T) {
	candidates := []Info{
		{Address: addr(1), HatScore: 5, Stake: 100},
		{Address: addr(2), HatScore: 10, Stake: 100},
		{Address: addr(3), HatScore: 1, Stake: 400},
	}
	seed := Seed(7, codec.H([]byte("l1block")), 1)
	el1 := ElectLeader(7, 10, candidates, seed, 10)
	el2 := ElectLeader(7, 10, candidates, seed, 10)
	if el1.Leader != el2.Leader {
		t.Fatalf("expected deterministic leader election")
	}
	if len(el1.Backups) != len(el2.Backups) {
		t.Fatalf("expected deterministic backup list length")
	}
	for i := range el1.Backups {
		if el1.Backups[i] != el2.Backups[i] {
			t.Fatalf("expected deterministic backup order")
		}
	}
}

func TestElectLeaderEmptySet(t *testing.T) {
	el := ElectLeader(0, 10, nil, codec.H([]byte("seed")), 10)
	if el.HasLeader {
		t.Fatalf("expected no leader for empty candidate set")
	}
}

func TestFailoverAdvancesToBackup(t *testing.T) {
	candidates := []Info{
		{Address: addr(1), HatScore: 1, Stake: 1},
		{Address: addr(2), HatScore: 1, Stake: 1},
		{Address: addr(3), HatScore: 1, Stake: 1},
	}
	seed := Seed(5, codec.H([]byte("anchor")), 1)
	el := ElectLeader(5, 10, candidates, seed, 10)

	reg := NewRegistry(DefaultConfig(1), fakeVerifier{ok: true})
	for _, c := range candidates {
		_ = reg.HandleAnnounce(Announce{Address: c.Address, ChainID: 1, Timestamp: 1, HatScore: c.HatScore, Stake: c.Stake, PeerCount: 1}, 1)
	}

	tracker := NewFailoverTracker(fakeVerifier{ok: true})
	leader, ok := tracker.OnLeaderTimeout(el.Slot, el, reg)
	if !ok {
		t.Fatalf("expected failover to find a backup")
	}
	if leader != el.Backups[0] {
		t.Fatalf("expected first backup to become acting leader, got %v want %v", leader, el.Backups[0])
	}
	info, _ := reg.Get(el.Leader)
	if info.BlocksMissed != 1 {
		t.Fatalf("expected original leader's missed-block counter incremented")
	}
}

func TestSubmitClaimTieBreakByLowerPosition(t *testing.T) {
	el := Election{Slot: 1, Leader: addr(1), HasLeader: true, Backups: []codec.Address{addr(2), addr(3)}}
	tracker := NewFailoverTracker(fakeVerifier{ok: true})

	weak := LeadershipClaim{Address: addr(3), Slot: 1, FailoverPosition: 1, Timestamp: 100}
	if err := tracker.SubmitClaim(weak, 100, 1, nil, el); err != nil {
		t.Fatalf("submit weak claim: %v", err)
	}
	strong := LeadershipClaim{Address: addr(2), Slot: 1, FailoverPosition: 0, Timestamp: 100}
	if err := tracker.SubmitClaim(strong, 100, 1, nil, el); err != nil {
		t.Fatalf("submit strong claim: %v", err)
	}
	leader, ok := tracker.ActingLeader(1)
	if !ok || leader != addr(2) {
		t.Fatalf("expected lower failover position claim to win, got %v", leader)
	}
}
