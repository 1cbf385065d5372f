package state

// RentConfig parameterizes the state-rent calculation.
type RentConfig struct {
	RatePerByte      uint64
	BlocksPerYear    uint64
	GracePeriod      uint64 // blocks since activity before rent accrues
	MinBalance       int64  // accounts that can't pay this minimum are archived
}

// DefaultRentConfig mirrors the genesis defaults used across the other
// components' Default*Config constructors.
func DefaultRentConfig() RentConfig {
	return RentConfig{
		RatePerByte:   1,
		BlocksPerYear: 52_560, // ~10 min blocks
		GracePeriod:   1_008,  // ~1 week
		MinBalance:    1000,
	}
}

// RentResult reports the outcome of charging a single account.
type RentResult struct {
	Charged  int64
	Archived bool
}

// ProcessStateRent charges every non-grace-period account
// (approx_size_bytes * rate * blocks_since_activity) / blocks_per_year.
// Accounts whose balance falls below cfg.MinBalance and cannot pay are
// archived rather than left with a negative balance.
func (m *Manager) ProcessStateRent(currentBlock uint64, cfg RentConfig) map[[20]byte]RentResult {
	results := make(map[[20]byte]RentResult)
	if cfg.BlocksPerYear == 0 {
		return results
	}
	for addr := range m.addressIndex {
		acc, ok := m.GetAccount(addr)
		if !ok {
			continue
		}
		elapsed := blocksSince(acc.LastActivity, currentBlock)
		if elapsed < cfg.GracePeriod {
			continue
		}
		rent := int64(acc.ApproxSizeBytes()*cfg.RatePerByte*elapsed) / int64(cfg.BlocksPerYear)
		if rent <= 0 {
			continue
		}
		if acc.Balance-rent < cfg.MinBalance {
			m.archiveAccount(addr, acc, currentBlock)
			results[addr] = RentResult{Charged: acc.Balance, Archived: true}
			continue
		}
		acc.Balance -= rent
		_ = m.SetAccount(addr, acc)
		results[addr] = RentResult{Charged: rent}
	}
	return results
}

func blocksSince(lastActivity, currentBlock uint64) uint64 {
	if currentBlock <= lastActivity {
		return 0
	}
	return currentBlock - lastActivity
}
