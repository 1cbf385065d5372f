// Package state implements the account-balance state model authenticated
// by the Sparse Merkle Tree in package smt (component B,).
package state

import (
	"github.com/cascoin/l2/codec"
)

// Account is the per-address state record in Balance is a 64-bit
// signed satoshi-unit value that must never go negative.
type Account struct {
	Balance      int64
	Nonce        uint64
	CodeHash     codec.Hash
	StorageRoot  codec.Hash
	HatScore     uint32
	LastActivity uint64
}

// IsEmpty reports whether every field is zero — the condition under which
// an account is absent from the SMT.
func (a Account) IsEmpty() bool {
	return a.Balance == 0 && a.Nonce == 0 && a.CodeHash.IsZero() &&
		a.StorageRoot.IsZero() && a.HatScore == 0 && a.LastActivity == 0
}

// IsContract reports whether the account has deployed code.
func (a Account) IsContract() bool {
	return !a.CodeHash.IsZero()
}

func (a Account) encode() []byte {
	w := codec.NewWriter()
	w.I64(a.Balance).U64(a.Nonce).Bytes32(a.CodeHash).Bytes32(a.StorageRoot).
		U32(a.HatScore).U64(a.LastActivity)
	return w.Bytes()
}

// Encode returns the canonical byte encoding of the account, for
// callers (e.g. package store) that persist accounts outside the SMT.
func (a Account) Encode() []byte { return a.encode() }

func decodeAccount(b []byte) (Account, error) {
	var a Account
	r := codec.NewReader(b)
	var err error
	if a.Balance, err = r.I64(); err != nil {
		return a, err
	}
	if a.Nonce, err = r.U64(); err != nil {
		return a, err
	}
	if a.CodeHash, err = r.Bytes32(); err != nil {
		return a, err
	}
	if a.StorageRoot, err = r.Bytes32(); err != nil {
		return a, err
	}
	if a.HatScore, err = r.U32(); err != nil {
		return a, err
	}
	if a.LastActivity, err = r.U64(); err != nil {
		return a, err
	}
	return a, nil
}

// DecodeAccount parses the canonical byte encoding produced by Encode.
func DecodeAccount(b []byte) (Account, error) { return decodeAccount(b) }

// accountKey derives the 256-bit SMT key for an address.
func accountKey(addr codec.Address) codec.Hash {
	return codec.H([]byte("account"), addr.Bytes())
}

// storageKey derives the 256-bit SMT key for one contract storage slot.
func storageKey(slot codec.Hash) codec.Hash {
	return codec.H([]byte("storage"), slot.Bytes())
}

// ApproxSizeBytes is the fixed encoded size used by the state-rent
// calculation.
func (a Account) ApproxSizeBytes() uint64 {
	return uint64(len(a.encode()))
}
