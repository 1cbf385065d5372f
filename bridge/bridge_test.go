package bridge

import (
	"testing"

	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/state"
)

func addr(b byte) codec.Address {
	var a codec.Address
	a[codec.AddressSize-1] = b
	return a
}

func txHash(s string) codec.Hash { return codec.H([]byte(s)) }

func TestDecodeBurnMarkerRoundTrip(t *testing.T) {
	recipient := addr(0xAB)
	script := EncodeBurnMarker(7, recipient, 1)
	chainID, gotRecipient, version, ok := DecodeBurnMarker(script)
	if !ok {
		t.Fatalf("expected marker to decode")
	}
	if chainID != 7 || gotRecipient != recipient || version != 1 {
		t.Fatalf("decoded marker mismatch: chain=%d recipient=%v version=%d", chainID, gotRecipient, version)
	}
}

func TestDecodeBurnMarkerRejectsGarbage(t *testing.T) {
	if _, _, _, ok := DecodeBurnMarker([]byte{0x01, 0x02, 0x03}); ok {
		t.Fatalf("expected non-marker script to fail decoding")
	}
}

type fakeVerifier struct{ ok bool }

func (f fakeVerifier) Verify(pubKey, sig []byte, digest codec.Hash) bool { return f.ok }

type fakeLookup struct{ eligible map[codec.Address][]byte }

func (f fakeLookup) IsEligible(addr codec.Address) (bool, []byte) {
	pk, ok := f.eligible[addr]
	return ok, pk
}

func weightsOf(totals map[byte]uint64) WeightSet {
	ws := WeightSet{Weights: make(map[codec.Address]uint64)}
	for b, w := range totals {
		ws.Weights[addr(b)] = w
		ws.Total += w
	}
	return ws
}

// TestBurnConsensusReachesThreshold covers scenario S2.
func TestBurnConsensusReachesThreshold(t *testing.T) {
	weights := weightsOf(map[byte]uint64{1: 10, 2: 10, 3: 10, 4: 10})
	lookup := fakeLookup{eligible: map[codec.Address][]byte{
		addr(1): {1}, addr(2): {2}, addr(3): {3}, addr(4): {4},
	}}
	tracker := NewMintConsensusTracker(DefaultConfig(1), fakeVerifier{ok: true})
	l1Hash := txHash("burn-1")
	recipient := addr(99)

	confirm := func(signer byte) MintConfirmation {
		return MintConfirmation{L1TxHash: l1Hash, ChainID: 1, SequencerAddr: addr(signer), Amount: 100, L2Recipient: recipient, Timestamp: 1000}
	}
	if err := tracker.HandleConfirmation(confirm(1), 1000, lookup, weights); err != nil {
		t.Fatalf("confirm 1: %v", err)
	}
	if err := tracker.HandleConfirmation(confirm(2), 1000, lookup, weights); err != nil {
		t.Fatalf("confirm 2: %v", err)
	}
	state, _ := tracker.Get(l1Hash)
	if state.Status != StatusPending {
		t.Fatalf("expected PENDING at 20/40 weight, got %v", state.Status)
	}
	if err := tracker.HandleConfirmation(confirm(3), 1000, lookup, weights); err != nil {
		t.Fatalf("confirm 3: %v", err)
	}
	state, _ = tracker.Get(l1Hash)
	if state.Status != StatusReached {
		t.Fatalf("expected REACHED at 30/40 = 75%%, got %v", state.Status)
	}
}

func TestConfirmationAmountMismatchRejected(t *testing.T) {
	weights := weightsOf(map[byte]uint64{1: 10, 2: 10})
	lookup := fakeLookup{eligible: map[codec.Address][]byte{addr(1): {1}, addr(2): {2}}}
	tracker := NewMintConsensusTracker(DefaultConfig(1), fakeVerifier{ok: true})
	l1Hash := txHash("burn-2")

	first := MintConfirmation{L1TxHash: l1Hash, ChainID: 1, SequencerAddr: addr(1), Amount: 100, L2Recipient: addr(5), Timestamp: 1000}
	_ = tracker.HandleConfirmation(first, 1000, lookup, weights)

	mismatched := MintConfirmation{L1TxHash: l1Hash, ChainID: 1, SequencerAddr: addr(2), Amount: 200, L2Recipient: addr(5), Timestamp: 1000}
	if err := tracker.HandleConfirmation(mismatched, 1000, lookup, weights); err == nil {
		t.Fatalf("expected amount mismatch error")
	}
	got, _ := tracker.Get(l1Hash)
	if len(got.Confirmations) != 1 {
		t.Fatalf("expected mismatched confirmation not counted")
	}
}

func TestApplyMintAtMostOnce(t *testing.T) {
	mgr := state.NewManager()
	registry := NewBurnRegistry()
	rec := BurnRecord{L1TxHash: txHash("burn-3"), L2Recipient: addr(7), Amount: 100, L2TxHash: txHash("mint-3")}

	if err := ApplyMint(mgr, registry, rec, 1); err != nil {
		t.Fatalf("first mint: %v", err)
	}
	acc, ok := mgr.GetAccount(addr(7))
	if !ok || acc.Balance != 100 {
		t.Fatalf("expected recipient balance 100, got %+v ok=%v", acc, ok)
	}

	if err := ApplyMint(mgr, registry, rec, 2); err == nil {
		t.Fatalf("expected second mint of same l1_tx_hash to be rejected")
	}
	acc, _ = mgr.GetAccount(addr(7))
	if acc.Balance != 100 {
		t.Fatalf("expected balance unchanged after rejected double mint, got %d", acc.Balance)
	}
}

func TestReachedUnmintedOrdering(t *testing.T) {
	weights := weightsOf(map[byte]uint64{1: 10})
	lookup := fakeLookup{eligible: map[codec.Address][]byte{addr(1): {1}}}
	tracker := NewMintConsensusTracker(Config{ChainID: 1, ConsensusNumerator: 1, ConsensusDenominator: 1, ConfirmationMaxAgeSecs: 3600, PendingTimeoutSecs: 3600}, fakeVerifier{ok: true})

	later := MintConfirmation{L1TxHash: txHash("later"), ChainID: 1, SequencerAddr: addr(1), Amount: 1, L2Recipient: addr(1), Timestamp: 2000}
	earlier := MintConfirmation{L1TxHash: txHash("earlier"), ChainID: 1, SequencerAddr: addr(1), Amount: 1, L2Recipient: addr(1), Timestamp: 1000}
	_ = tracker.HandleConfirmation(later, 2000, lookup, weights)
	_ = tracker.HandleConfirmation(earlier, 1000, lookup, weights)

	out := tracker.ReachedUnminted()
	if len(out) != 2 || out[0].L1TxHash != earlier.L1TxHash {
		t.Fatalf("expected earlier-first ordering by first_seen_time")
	}
}
