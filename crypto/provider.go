// Package crypto provides the pluggable signing backend used to sign and
// verify every consensus message: SeqAnnounce, SequencerVote,
// BlockProposal, LeadershipClaim, MintConfirmation. The narrow-interface
// pattern mirrors the teacher's provider abstraction so a future HSM- or
// remote-signer-backed implementation can be swapped in without touching
// callers.
package crypto

import "github.com/cascoin/l2/codec"

// Provider is the crypto interface used by every component that signs or
// verifies protocol messages.
type Provider interface {
	// Sign produces a signature over digest using the keypair identified
	// by privKey.
	Sign(privKey []byte, digest codec.Hash) ([]byte, error)
	// Verify reports whether sig is a valid signature over digest under
	// pubKey.
	Verify(pubKey []byte, sig []byte, digest codec.Hash) bool
	// Address derives the 160-bit sequencer/account address from a
	// public key.
	Address(pubKey []byte) codec.Address
}
