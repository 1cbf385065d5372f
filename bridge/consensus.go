package bridge

import (
	"sort"

	"github.com/cascoin/l2/codec"
)

// Verifier is the narrow signature-checking surface needed here;
// satisfied by crypto.Provider.
type Verifier interface {
	Verify(pubKey []byte, sig []byte, digest codec.Hash) bool
}

// SequencerLookup resolves eligibility and pubkeys for confirmation
// signers, satisfied by sequencer.Registry.
type SequencerLookup interface {
	IsEligible(addr codec.Address) (bool, []byte)
}

// WeightSet is a snapshot of the current eligible set's weights,
// supplied by the caller per slot (mirrors blockconsensus.WeightSet —
// kept as an independent type since the bridge and block-consensus
// lock domains never share state directly).
type WeightSet struct {
	Weights map[codec.Address]uint64
	Total   uint64
}

// Config parameterizes confirmation freshness and consensus threshold.
type Config struct {
	ChainID                uint64
	ConfirmationMaxAgeSecs uint64
	PendingTimeoutSecs     uint64
	ConsensusNumerator     uint64
	ConsensusDenominator   uint64
}

func DefaultConfig(chainID uint64) Config {
	return Config{
		ChainID:                chainID,
		ConfirmationMaxAgeSecs: 3600,
		PendingTimeoutSecs:     3600,
		ConsensusNumerator:     2,
		ConsensusDenominator:   3,
	}
}

// MintConsensusTracker owns one MintConsensusState per distinct
// l1_tx_hash. Not safe for concurrent use; it holds no lock of its
// own.
type MintConsensusTracker struct {
	cfg      Config
	verifier Verifier
	states   map[codec.Hash]*MintConsensusState
}

func NewMintConsensusTracker(cfg Config, verifier Verifier) *MintConsensusTracker {
	return &MintConsensusTracker{cfg: cfg, verifier: verifier, states: make(map[codec.Hash]*MintConsensusState)}
}

// HandleConfirmation validates and applies one MintConfirmation.
// A confirmation whose amount or recipient disagrees with the first
// one seen for its l1_tx_hash is rejected with ErrAmountMismatch; it is
// neither stored nor counted toward consensus weight, and the state's
// status is left unchanged.
func (t *MintConsensusTracker) HandleConfirmation(c MintConfirmation, now uint64, lookup SequencerLookup, weights WeightSet) error {
	eligible, pubKey := lookup.IsEligible(c.SequencerAddr)
	if !eligible {
		return xerr(ErrNotEligible, "confirmation signer is not currently eligible")
	}
	digest := codec.H(c.SignedPortion())
	if !t.verifier.Verify(pubKey, c.Signature, digest) {
		return xerr(ErrBadSignature, "confirmation signature invalid")
	}
	if c.ChainID != t.cfg.ChainID {
		return xerr(ErrBadChainID, "chain id mismatch")
	}
	if now > c.Timestamp && now-c.Timestamp > t.cfg.ConfirmationMaxAgeSecs {
		return xerr(ErrStaleTimestamp, "confirmation older than max age")
	}

	state, ok := t.states[c.L1TxHash]
	if !ok {
		state = &MintConsensusState{
			L1TxHash:      c.L1TxHash,
			Status:        StatusPending,
			Amount:        c.Amount,
			Recipient:     c.L2Recipient,
			Confirmations: make(map[codec.Address]MintConfirmation),
			FirstSeen:     now,
		}
		t.states[c.L1TxHash] = state
	}

	if _, dup := state.Confirmations[c.SequencerAddr]; dup {
		return xerr(ErrDuplicateSigner, "duplicate confirmation from this signer")
	}
	if state.Amount != c.Amount || state.Recipient != c.L2Recipient {
		return xerr(ErrAmountMismatch, "confirmation disagrees with first-seen amount/recipient for this burn")
	}

	state.Confirmations[c.SequencerAddr] = c

	if state.Status == StatusPending && weights.Total > 0 {
		var weight uint64
		for signer := range state.Confirmations {
			weight += weights.Weights[signer]
		}
		if weight*t.cfg.ConsensusDenominator >= weights.Total*t.cfg.ConsensusNumerator {
			state.Status = StatusReached
		}
	}
	return nil
}

// PruneStalePending fails any still-PENDING state older than the
// configured timeout.
func (t *MintConsensusTracker) PruneStalePending(now uint64) []codec.Hash {
	var failed []codec.Hash
	for hash, state := range t.states {
		if state.Status == StatusPending && now > state.FirstSeen && now-state.FirstSeen > t.cfg.PendingTimeoutSecs {
			state.Status = StatusFailed
			failed = append(failed, hash)
		}
	}
	return failed
}

// MarkMinted transitions a REACHED state to MINTED once its mint
// transaction's block finalizes.
func (t *MintConsensusTracker) MarkMinted(l1TxHash codec.Hash) bool {
	state, ok := t.states[l1TxHash]
	if !ok || state.Status != StatusReached {
		return false
	}
	state.Status = StatusMinted
	return true
}

// Reject marks a state REJECTED, e.g. on overflow or duplicate-mint
// detection at block-application time.
func (t *MintConsensusTracker) Reject(l1TxHash codec.Hash) {
	if state, ok := t.states[l1TxHash]; ok {
		state.Status = StatusRejected
	}
}

// RevertToPending moves a burn's mint consensus back to PENDING,
// clearing prior confirmations, after an L1 reorg orphans the blocks
// that contained it.
func (t *MintConsensusTracker) RevertToPending(l1TxHash codec.Hash) {
	if state, ok := t.states[l1TxHash]; ok {
		state.Status = StatusPending
		state.Confirmations = make(map[codec.Address]MintConfirmation)
		state.FirstSeen = 0
	}
}

// ReachedUnminted returns every REACHED state not yet MINTED, ordered
// by first_seen_time ascending then l1_tx_hash ascending — the order
// the next leader must include mint transactions in.
func (t *MintConsensusTracker) ReachedUnminted() []MintConsensusState {
	var out []MintConsensusState
	for _, state := range t.states {
		if state.Status == StatusReached {
			out = append(out, *state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessMintState(out[i], out[j]) })
	return out
}

func lessMintState(a, b MintConsensusState) bool {
	if a.FirstSeen != b.FirstSeen {
		return a.FirstSeen < b.FirstSeen
	}
	for i := 0; i < codec.HashSize; i++ {
		if a.L1TxHash[i] != b.L1TxHash[i] {
			return a.L1TxHash[i] < b.L1TxHash[i]
		}
	}
	return false
}

// Get returns the current consensus state for l1TxHash.
func (t *MintConsensusTracker) Get(l1TxHash codec.Hash) (MintConsensusState, bool) {
	state, ok := t.states[l1TxHash]
	if !ok {
		return MintConsensusState{}, false
	}
	return *state, true
}
