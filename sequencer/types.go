// Package sequencer implements the sequencer registry, leader
// election, and failover handling of component C.
package sequencer

import "github.com/cascoin/l2/codec"

// Info is the registry's authoritative record for one sequencer.
type Info struct {
	Address     codec.Address
	PubKey      []byte
	Stake       uint64
	HatScore    uint32
	PeerCount   uint32
	Endpoint    string
	L1Block     uint64
	ChainID     uint64
	ProtoVer    uint32
	LastAnnounce uint64 // unix seconds

	VerifiedStake    uint64
	VerifiedHatScore uint32
	IsVerified       bool
	IsEligible       bool

	LastBlockProduced uint64
	BlocksProduced    uint64
	BlocksMissed      uint64
	AttestationCount  uint32
}

// Weight returns this sequencer's current election/vote weight,
// computed from its verified stake/hat score once verified, else from
// the self-reported values.
func (i Info) Weight() uint64 {
	if i.IsVerified {
		return Weight(i.VerifiedHatScore, i.VerifiedStake)
	}
	return Weight(i.HatScore, i.Stake)
}

// Announce is the signed SeqAnnounce message.
type Announce struct {
	Address         codec.Address
	PubKey          []byte
	Stake           uint64
	HatScore        uint32
	PeerCount       uint32
	PublicEndpoint  string
	L1BlockHeight   uint64
	Timestamp       uint64
	ChainID         uint64
	ProtocolVersion uint32
	Signature       []byte
}

// SignedPortion is the exact byte concatenation hashed/signed for this
// message: every declared field in order, excluding Signature.
func (a Announce) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Addr(a.Address).VarBytes(a.PubKey).U64(a.Stake).U32(a.HatScore).
		U32(a.PeerCount).VarString(a.PublicEndpoint).U64(a.L1BlockHeight).
		U64(a.Timestamp).U64(a.ChainID).U32(a.ProtocolVersion)
	return w.Bytes()
}

// Attestation is a signed peer observation of another sequencer's
// verified stake/hat_score.
type Attestation struct {
	Sequencer     codec.Address
	Attester      codec.Address
	AttestedHat   uint32
	AttestedStake uint64
	L1Block       uint64
	Timestamp     uint64
	Signature     []byte
}

func (a Attestation) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Addr(a.Sequencer).Addr(a.Attester).U32(a.AttestedHat).
		U64(a.AttestedStake).U64(a.L1Block).U64(a.Timestamp)
	return w.Bytes()
}

// LeadershipClaim is the signed proactive failover claim.
type LeadershipClaim struct {
	Address          codec.Address
	Slot             uint64
	FailoverPosition uint32
	Timestamp        uint64
	PreviousLeader   codec.Address
	Reason           string
	Signature        []byte
}

func (c LeadershipClaim) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Addr(c.Address).U64(c.Slot).U32(c.FailoverPosition).U64(c.Timestamp).
		Addr(c.PreviousLeader).VarString(c.Reason)
	return w.Bytes()
}

const minAttestationsForVerification = 3
