package adapter

import (
	"github.com/cascoin/l2/blockconsensus"
	"github.com/cascoin/l2/bridge"
	"github.com/cascoin/l2/clm"
	"github.com/cascoin/l2/sequencer"
)

// Transport carries every signed message type the protocol defines.
// "Broadcast X" means handing X to the transport's Send method;
// delivery and peer management are the transport implementation's
// concern, not the protocol's.
type Transport interface {
	SendSeqAnnounce(sequencer.Announce) error
	SendAttestation(sequencer.Attestation) error
	SendBlockProposal(blockconsensus.BlockProposal) error
	SendVote(blockconsensus.SequencerVote) error
	SendLeadershipClaim(sequencer.LeadershipClaim) error
	SendMintConfirmation(bridge.MintConfirmation) error
	SendL1ToL2Message(clm.L1ToL2Message) error
	SendL2ToL1Message(clm.L2ToL1Message) error

	// Recv drains one inbound message of any of the above types;
	// implementations decide their own demultiplexing scheme. Returns
	// ok=false when nothing is queued.
	Recv() (any, bool)
}
