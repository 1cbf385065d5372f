package sequencer

import (
	"sort"

	"github.com/cascoin/l2/codec"
)

// Verifier is the narrow signature-checking surface the registry
// needs; satisfied by crypto.Provider.
type Verifier interface {
	Verify(pubKey []byte, sig []byte, digest codec.Hash) bool
}

// Config parameterizes registry acceptance and eligibility rules.
type Config struct {
	ChainID             uint64
	ProtocolVersion     uint32
	MaxSequencers       int
	MaxAttestations     int
	MaxBackups          int
	AnnouncementExpiry  uint64 // seconds
	MinHat              uint32
	MinStake            uint64
	MinPeers            uint32
	BlocksPerLeader     uint64
	FutureToleranceSecs uint64
}

// DefaultConfig mirrors the rollup's genesis defaults.
func DefaultConfig(chainID uint64) Config {
	return Config{
		ChainID:             chainID,
		ProtocolVersion:     1,
		MaxSequencers:       256,
		MaxAttestations:     32,
		MaxBackups:          10,
		AnnouncementExpiry:  3600,
		MinHat:              1,
		MinStake:            1,
		MinPeers:            1,
		BlocksPerLeader:     10,
		FutureToleranceSecs: 60,
	}
}

// Registry holds every announced sequencer and the attestations made
// about it. Not safe for concurrent use; it holds no lock of its own.
type Registry struct {
	cfg          Config
	verifier     Verifier
	sequencers   map[codec.Address]*Info
	attestations map[codec.Address][]Attestation
}

func NewRegistry(cfg Config, verifier Verifier) *Registry {
	return &Registry{
		cfg:          cfg,
		verifier:     verifier,
		sequencers:   make(map[codec.Address]*Info),
		attestations: make(map[codec.Address][]Attestation),
	}
}

// HandleAnnounce validates and applies a SeqAnnounce. Replays of
// an already-seen (address, timestamp) pair are idempotent no-ops.
func (r *Registry) HandleAnnounce(a Announce, now uint64) error {
	if a.ChainID != r.cfg.ChainID {
		return xerr(ErrBadChainID, "chain_id mismatch")
	}
	if a.Timestamp > now+r.cfg.FutureToleranceSecs {
		return xerr(ErrFutureTimestamp, "announcement timestamp too far in the future")
	}
	if now > a.Timestamp && now-a.Timestamp > r.cfg.AnnouncementExpiry {
		return xerr(ErrExpiredAnnounce, "announcement older than expiry window")
	}
	if a.ProtocolVersion > r.cfg.ProtocolVersion {
		return xerr(ErrNewerProtocol, "protocol version newer than ours")
	}
	digest := codec.H(a.SignedPortion())
	if !r.verifier.Verify(a.PubKey, a.Signature, digest) {
		return xerr(ErrBadSignature, "announcement signature invalid")
	}

	if existing, ok := r.sequencers[a.Address]; ok {
		if a.Timestamp <= existing.LastAnnounce {
			return nil // idempotent replay of a stale or duplicate announcement
		}
		r.applyAnnounce(existing, a)
		return nil
	}

	if len(r.sequencers) >= r.cfg.MaxSequencers {
		r.evictOldest()
	}
	info := &Info{}
	r.applyAnnounce(info, a)
	r.sequencers[a.Address] = info
	return nil
}

func (r *Registry) applyAnnounce(info *Info, a Announce) {
	info.Address = a.Address
	info.PubKey = a.PubKey
	info.Stake = a.Stake
	info.HatScore = a.HatScore
	info.PeerCount = a.PeerCount
	info.Endpoint = a.PublicEndpoint
	info.L1Block = a.L1BlockHeight
	info.LastAnnounce = a.Timestamp
	info.ChainID = a.ChainID
	info.ProtoVer = a.ProtocolVersion
	info.IsEligible = info.HatScore >= r.cfg.MinHat &&
		info.Stake >= r.cfg.MinStake &&
		info.PeerCount >= r.cfg.MinPeers
}

func (r *Registry) evictOldest() {
	var oldestAddr codec.Address
	var oldestTime uint64
	first := true
	for addr, info := range r.sequencers {
		if first || info.LastAnnounce < oldestTime {
			oldestAddr = addr
			oldestTime = info.LastAnnounce
			first = false
		}
	}
	if !first {
		delete(r.sequencers, oldestAddr)
		delete(r.attestations, oldestAddr)
	}
}

// HandleAttestation records a peer attestation and recomputes the
// target's verified_* values once ≥ 3 distinct attesters have weighed
// in.
func (r *Registry) HandleAttestation(a Attestation, now uint64) error {
	target, ok := r.sequencers[a.Sequencer]
	if !ok {
		return xerr(ErrUnknownSequencer, "attestation target not registered")
	}
	digest := codec.H(a.SignedPortion())
	attesterInfo, ok := r.sequencers[a.Attester]
	if !ok {
		return xerr(ErrUnknownSequencer, "attester not registered")
	}
	if !r.verifier.Verify(attesterInfo.PubKey, a.Signature, digest) {
		return xerr(ErrBadSignature, "attestation signature invalid")
	}

	list := r.attestations[a.Sequencer]
	replaced := false
	for i, existing := range list {
		if existing.Attester == a.Attester {
			if a.Timestamp <= existing.Timestamp {
				return nil // idempotent replay
			}
			list[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, a)
		if len(list) > r.cfg.MaxAttestations {
			sort.Slice(list, func(i, j int) bool { return list[i].Timestamp < list[j].Timestamp })
			list = list[len(list)-r.cfg.MaxAttestations:]
		}
	}
	r.attestations[a.Sequencer] = list
	target.AttestationCount = uint32(len(list))

	distinct := make(map[codec.Address]struct{}, len(list))
	for _, att := range list {
		distinct[att.Attester] = struct{}{}
	}
	if len(distinct) >= minAttestationsForVerification {
		var sumHat uint64
		var sumStake uint64
		for _, att := range list {
			sumHat += uint64(att.AttestedHat)
			sumStake += att.AttestedStake
		}
		target.VerifiedHatScore = uint32(sumHat / uint64(len(list)))
		target.VerifiedStake = sumStake / uint64(len(list))
		target.IsVerified = true
	}
	return nil
}

// PruneExpired drops sequencers whose last announcement is older than
// the configured expiry window, returning their addresses.
func (r *Registry) PruneExpired(now uint64) []codec.Address {
	var expired []codec.Address
	for addr, info := range r.sequencers {
		if now > info.LastAnnounce && now-info.LastAnnounce > r.cfg.AnnouncementExpiry {
			expired = append(expired, addr)
		}
	}
	for _, addr := range expired {
		delete(r.sequencers, addr)
		delete(r.attestations, addr)
	}
	return expired
}

// Get returns the registry's record for addr.
func (r *Registry) Get(addr codec.Address) (Info, bool) {
	info, ok := r.sequencers[addr]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// Eligible returns every currently eligible, unexpired sequencer.
func (r *Registry) Eligible(now uint64) []Info {
	var out []Info
	for _, info := range r.sequencers {
		if !info.IsEligible {
			continue
		}
		if now > info.LastAnnounce && now-info.LastAnnounce > r.cfg.AnnouncementExpiry {
			continue
		}
		out = append(out, *info)
	}
	return out
}

// RecordBlockProduced updates production metrics for the leader of a
// finalized block.
func (r *Registry) RecordBlockProduced(addr codec.Address, blockNumber uint64) {
	if info, ok := r.sequencers[addr]; ok {
		info.LastBlockProduced = blockNumber
		info.BlocksProduced++
	}
}

// RecordBlockMissed marks a missed slot against a timed-out leader.
func (r *Registry) RecordBlockMissed(addr codec.Address) {
	if info, ok := r.sequencers[addr]; ok {
		info.BlocksMissed++
	}
}
