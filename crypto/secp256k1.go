package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/cascoin/l2/codec"
)

// Secp256k1Provider is the default, non-HSM signing provider used by a
// sequencer in development and for testing. It implements the crypto
// interface used by every message type in's transport contract.
type Secp256k1Provider struct{}

func (Secp256k1Provider) Sign(privKeyBytes []byte, digest codec.Hash) ([]byte, error) {
	if len(privKeyBytes) != 32 {
		return nil, fmt.Errorf("secp256k1: private key must be 32 bytes, got %d", len(privKeyBytes))
	}
	priv := secp256k1.PrivKeyFromBytes(privKeyBytes)
	defer priv.Zero()
	sig := ecdsa.Sign(priv, digest[:])
	return sig.Serialize(), nil
}

func (Secp256k1Provider) Verify(pubKeyBytes []byte, sigBytes []byte, digest codec.Hash) bool {
	pub, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pub)
}

// Address derives a 160-bit address as the low 20 bytes of the
// double-SHA-256 hash of the compressed public key — the same hash
// primitive used everywhere else in authenticated structures.
func (Secp256k1Provider) Address(pubKeyBytes []byte) codec.Address {
	h := codec.H(pubKeyBytes)
	var addr codec.Address
	copy(addr[:], h[codec.HashSize-codec.AddressSize:])
	return addr
}

// GenerateKeypair returns a fresh private key and its serialized
// compressed public key, for devnet bring-up and tests.
func GenerateKeypair() (privKey []byte, pubKey []byte, err error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, err
	}
	defer priv.Zero()
	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}
