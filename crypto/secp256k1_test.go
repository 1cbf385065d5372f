package crypto

import (
	"testing"

	"github.com/cascoin/l2/codec"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, pub, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	p := Secp256k1Provider{}
	digest := codec.H([]byte("hello rollup"))

	sig, err := p.Sign(priv, digest)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !p.Verify(pub, sig, digest) {
		t.Fatalf("expected signature to verify")
	}

	tampered := codec.H([]byte("hello rollup!"))
	if p.Verify(pub, sig, tampered) {
		t.Fatalf("signature must not verify over a different digest")
	}
}

func TestAddressDeterministic(t *testing.T) {
	_, pub, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	p := Secp256k1Provider{}
	a1 := p.Address(pub)
	a2 := p.Address(pub)
	if a1 != a2 {
		t.Fatalf("address derivation must be deterministic")
	}
}

func TestSignRejectsBadKeyLength(t *testing.T) {
	p := Secp256k1Provider{}
	_, err := p.Sign([]byte{1, 2, 3}, codec.Hash{})
	if err == nil {
		t.Fatalf("expected error for short private key")
	}
}

