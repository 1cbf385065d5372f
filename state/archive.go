package state

import (
	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/smt"
)

// ArchivedEntry retains an inactive account's last known state along
// with an inclusion proof against the SMT root at archive time, so
// Restore can verify the claim before re-inserting it.
type ArchivedEntry struct {
	Address          codec.Address
	State            Account
	ArchivedAtBlock  uint64
	ArchiveStateRoot codec.Hash
	Proof            smt.Proof
}

// ArchiveInactive moves every account inactive for >= threshold blocks
// into the archive map.
func (m *Manager) ArchiveInactive(currentBlock, threshold uint64) []codec.Address {
	var archived []codec.Address
	for addr := range m.addressIndex {
		acc, ok := m.GetAccount(addr)
		if !ok {
			continue
		}
		if blocksSince(acc.LastActivity, currentBlock) >= threshold {
			m.archiveAccount(addr, acc, currentBlock)
			archived = append(archived, addr)
		}
	}
	return archived
}

// archiveAccount captures the proof against the current root before
// removing the account from the live SMT.
func (m *Manager) archiveAccount(addr codec.Address, acc Account, currentBlock uint64) {
	proof, err := m.accounts.GenerateInclusionProof(accountKey(addr))
	if err != nil {
		return
	}
	m.archive[addr] = ArchivedEntry{
		Address:          addr,
		State:            acc,
		ArchivedAtBlock:  currentBlock,
		ArchiveStateRoot: m.Root(),
		Proof:            proof,
	}
	_ = m.SetAccount(addr, Account{})
}

// Restore verifies an archived entry's proof still reconstructs its
// claimed root and re-inserts the account into live state.
func (m *Manager) Restore(addr codec.Address, entry ArchivedEntry) (bool, error) {
	stored, ok := m.archive[addr]
	if !ok || stored.ArchiveStateRoot != entry.ArchiveStateRoot {
		return false, xerr(ErrArchiveProofInvalid, "no matching archive entry")
	}
	if !smt.VerifyProof(entry.Proof, entry.ArchiveStateRoot, accountKey(addr), entry.State.encode()) {
		return false, xerr(ErrArchiveProofInvalid, "archived proof does not verify against claimed root")
	}
	if err := m.SetAccount(addr, entry.State); err != nil {
		return false, err
	}
	delete(m.archive, addr)
	return true, nil
}

// Archived returns the current archive map's entry for addr, if any.
func (m *Manager) Archived(addr codec.Address) (ArchivedEntry, bool) {
	e, ok := m.archive[addr]
	return e, ok
}
