package state

import (
	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/smt"
)

// Snapshot is a point-in-time checkpoint of the accounts state.
// account_delta is implemented here as a full copy of every known
// account rather than a diff against the prior snapshot: reorgs in
// practice land within a handful of blocks of the tip, so the simpler
// representation trades a bounded amount of memory (K snapshots ×
// account count) for a revert_to that never has to walk a delta chain.
type Snapshot struct {
	StateRoot     codec.Hash
	BlockNumber   uint64
	L1AnchorBlock uint64
	Timestamp     uint64
	AccountDelta  map[codec.Address]Account
}

// CreateSnapshot records the current account map, root, and metadata,
// then FIFO-prunes the history to MaxSnapshots.
func (m *Manager) CreateSnapshot(blockNumber, l1AnchorBlock, timestamp uint64) Snapshot {
	delta := make(map[codec.Address]Account, len(m.addressIndex))
	for addr := range m.addressIndex {
		acc, ok := m.GetAccount(addr)
		if ok {
			delta[addr] = acc
		}
	}
	snap := Snapshot{
		StateRoot:     m.Root(),
		BlockNumber:   blockNumber,
		L1AnchorBlock: l1AnchorBlock,
		Timestamp:     timestamp,
		AccountDelta:  delta,
	}
	m.snapshots = append(m.snapshots, snap)
	if len(m.snapshots) > MaxSnapshots {
		m.snapshots = m.snapshots[len(m.snapshots)-MaxSnapshots:]
	}
	return snap
}

// Snapshots returns the current bounded snapshot history, oldest first.
func (m *Manager) Snapshots() []Snapshot {
	return m.snapshots
}

// RevertTo restores the accounts map to the snapshot matching
// stateRoot, rebuilding the accounts SMT from exactly that snapshot's
// account-delta closure and validating the resulting root.
// Per, storage trees and archive entries anchored past the reverted
// point are left untouched by design: callers that need storage rolled
// back as well must re-derive contract storage_root from the restored
// account record, which this call already does.
func (m *Manager) RevertTo(stateRoot codec.Hash) (bool, error) {
	idx := -1
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if m.snapshots[i].StateRoot == stateRoot {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, xerr(ErrUnknownSnapshot, "no snapshot matches requested root")
	}
	target := m.snapshots[idx]

	accTree := smt.New()
	newIndex := make(map[codec.Address]struct{}, len(target.AccountDelta))
	for addr, acc := range target.AccountDelta {
		if acc.IsEmpty() {
			continue
		}
		if err := accTree.Set(accountKey(addr), acc.encode()); err != nil {
			return false, err
		}
		newIndex[addr] = struct{}{}
	}

	if accTree.Root() != target.StateRoot {
		return false, xerr(ErrUnknownSnapshot, "reconstructed root does not match snapshot root")
	}

	m.accounts = accTree
	m.addressIndex = newIndex
	m.snapshots = m.snapshots[:idx+1]
	return true, nil
}
