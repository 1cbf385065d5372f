package state

import (
	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/smt"
)

// MaxSnapshots bounds the reorg-capable snapshot history.
const MaxSnapshots = 100

// Manager aggregates an accounts SMT plus a per-contract storage SMT,
// offers transactional batch application with all-or-nothing semantics,
// and owns the bounded snapshot history used to revert L1 reorgs.
//
// Not safe for concurrent use; callers serialize access under one
// exclusive lock (the SMT is logically owned by the state
// manager and never accessed concurrently from another component).
type Manager struct {
	accounts *smt.Tree
	storage  map[codec.Address]*smt.Tree

	// addressIndex tracks every address that currently has a non-empty
	// live account (an address leaves it when its account is emptied or
	// archived), so rent/archive sweeps and snapshot deltas don't
	// require a full SMT traversal.
	addressIndex map[codec.Address]struct{}

	snapshots []Snapshot
	archive   map[codec.Address]ArchivedEntry

	totalSupply int64
}

func NewManager() *Manager {
	return &Manager{
		accounts:     smt.New(),
		storage:      make(map[codec.Address]*smt.Tree),
		addressIndex: make(map[codec.Address]struct{}),
		archive:      make(map[codec.Address]ArchivedEntry),
	}
}

// Root returns the current accounts-tree root (I1).
func (m *Manager) Root() codec.Hash {
	return m.accounts.Root()
}

// TotalSupply returns the running ledger of minted minus burned-as-fee
// amounts, used to check I4/I8 independently of summing every balance.
func (m *Manager) TotalSupply() int64 {
	return m.totalSupply
}

// Addresses returns every address that currently has a live account,
// for callers (e.g. package store) that need to enumerate accounts for
// persistence. Archived addresses are not included.
func (m *Manager) Addresses() []codec.Address {
	out := make([]codec.Address, 0, len(m.addressIndex))
	for addr := range m.addressIndex {
		out = append(out, addr)
	}
	return out
}

// SumBalances recomputes Σ account.balance by walking every known
// address. Intended for invariant checks (I4), not the hot path.
func (m *Manager) SumBalances() int64 {
	var sum int64
	for addr := range m.addressIndex {
		if acc, ok := m.GetAccount(addr); ok {
			sum += acc.Balance
		}
	}
	return sum
}

func (m *Manager) GetAccount(addr codec.Address) (Account, bool) {
	raw := m.accounts.Get(accountKey(addr))
	if raw == nil {
		return Account{}, false
	}
	acc, err := decodeAccount(raw)
	if err != nil {
		return Account{}, false
	}
	return acc, true
}

// SetAccount stores state at addr. An empty state removes the account
// from the SMT.
func (m *Manager) SetAccount(addr codec.Address, acc Account) error {
	key := accountKey(addr)
	if acc.IsEmpty() {
		m.accounts.Delete(key)
		delete(m.addressIndex, addr)
		return nil
	}
	if err := m.accounts.Set(key, acc.encode()); err != nil {
		return err
	}
	m.addressIndex[addr] = struct{}{}
	return nil
}

func (m *Manager) storageTree(contract codec.Address) *smt.Tree {
	t, ok := m.storage[contract]
	if !ok {
		t = smt.New()
		m.storage[contract] = t
	}
	return t
}

func (m *Manager) GetStorage(contract codec.Address, slot codec.Hash) []byte {
	t, ok := m.storage[contract]
	if !ok {
		return nil
	}
	return t.Get(storageKey(slot))
}

// SetStorage updates a contract's storage SMT and rewrites the owning
// account's storage_root to match.
func (m *Manager) SetStorage(contract codec.Address, slot codec.Hash, value []byte) error {
	t := m.storageTree(contract)
	if err := t.Set(storageKey(slot), value); err != nil {
		return err
	}
	acc, ok := m.GetAccount(contract)
	if !ok {
		acc = Account{}
	}
	acc.StorageRoot = t.Root()
	return m.SetAccount(contract, acc)
}

// GenerateAccountProof delegates to the SMT (component A) for the
// account at addr.
func (m *Manager) GenerateAccountProof(addr codec.Address) (smt.Proof, error) {
	key := accountKey(addr)
	if m.accounts.Exists(key) {
		return m.accounts.GenerateInclusionProof(key)
	}
	return m.accounts.GenerateExclusionProof(key)
}

// credit adds amount to addr's balance, creating the account if absent.
// Negative amounts are rejected by callers before reaching this helper;
// credit itself only guards against signed-integer overflow (I4).
func (m *Manager) credit(addr codec.Address, amount int64, blockNumber uint64) error {
	if amount < 0 {
		return xerr(ErrInsufficientBalance, "credit amount must be non-negative")
	}
	acc, _ := m.GetAccount(addr)
	next := acc.Balance + amount
	if next < acc.Balance { // signed overflow
		return xerr(ErrBalanceOverflow, "balance overflow on credit")
	}
	acc.Balance = next
	acc.LastActivity = blockNumber
	return m.SetAccount(addr, acc)
}

// debit removes amount from addr's balance. Insufficient balance is a
// caller-visible error, not a panic.
func (m *Manager) debit(addr codec.Address, amount int64, blockNumber uint64) error {
	if amount < 0 {
		return xerr(ErrInsufficientBalance, "debit amount must be non-negative")
	}
	acc, ok := m.GetAccount(addr)
	if !ok || acc.Balance < amount {
		return xerr(ErrInsufficientBalance, "insufficient balance")
	}
	acc.Balance -= amount
	acc.Nonce++
	acc.LastActivity = blockNumber
	return m.SetAccount(addr, acc)
}
