package store

import (
	"fmt"

	"github.com/cascoin/l2/state"
)

// LoadManager rebuilds a state.Manager by replaying every persisted
// account back through SetAccount. The SMT is never serialized node
// by node (see the package doc comment); this is the reconstruction
// path run once at node startup.
func (d *DB) LoadManager() (*state.Manager, error) {
	m := state.NewManager()
	addrs, err := d.Accounts()
	if err != nil {
		return nil, fmt.Errorf("store: list accounts: %w", err)
	}
	for _, addr := range addrs {
		acc, ok, err := d.GetAccount(addr)
		if err != nil {
			return nil, fmt.Errorf("store: load account: %w", err)
		}
		if !ok {
			continue
		}
		if err := m.SetAccount(addr, acc); err != nil {
			return nil, fmt.Errorf("store: replay account %x: %w", addr[:], err)
		}
	}
	return m, nil
}

// SaveManager persists every address the manager currently knows
// about. Intended to run after each finalized block, not on
// the hot path of every transaction.
func (d *DB) SaveManager(m *state.Manager) error {
	for _, addr := range m.Addresses() {
		acc, ok := m.GetAccount(addr)
		if !ok {
			if err := d.DeleteAccount(addr); err != nil {
				return err
			}
			continue
		}
		if acc.IsEmpty() {
			if err := d.DeleteAccount(addr); err != nil {
				return err
			}
			continue
		}
		if err := d.PutAccount(addr, acc); err != nil {
			return err
		}
	}
	return nil
}
