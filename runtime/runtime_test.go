package runtime

import (
	"testing"

	"github.com/cascoin/l2/adapter"
	"github.com/cascoin/l2/store"
)

func TestDefaultGenesisConfigValidates(t *testing.T) {
	if err := ValidateGenesisConfig(DefaultGenesisConfig(7)); err != nil {
		t.Fatalf("default genesis config should validate: %v", err)
	}
}

func TestValidateGenesisConfigRejectsBadThreshold(t *testing.T) {
	cfg := DefaultGenesisConfig(7)
	cfg.ConsensusThresholdNum = 5
	cfg.ConsensusThresholdDenom = 3
	if err := ValidateGenesisConfig(cfg); err == nil {
		t.Fatalf("expected rejection of a threshold > 1")
	}
}

func TestValidateGenesisConfigRejectsBadAddress(t *testing.T) {
	cfg := DefaultGenesisConfig(7)
	cfg.GenesisDistribution = map[string]int64{"not-hex": 100}
	if err := ValidateGenesisConfig(cfg); err == nil {
		t.Fatalf("expected rejection of a malformed genesis address")
	}
}

func TestNewWiresEveryComponentAndAppliesGenesis(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(dir, "deadbeef")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := DefaultGenesisConfig(7)
	cfg.GenesisDistribution = map[string]int64{
		"0101010101010101010101010101010101010101": 1000,
	}

	rt, err := New(cfg, db, adapter.NewMemoryL1Adapter(), adapter.NewMemoryTransport())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rt.State.SumBalances() != 1000 {
		t.Fatalf("expected genesis distribution applied, got sum %d", rt.State.SumBalances())
	}
	if rt.CircuitBreaker.TVL() != 1000 {
		t.Fatalf("expected circuit breaker TVL seeded from genesis balance, got %d", rt.CircuitBreaker.TVL())
	}
	if rt.SequencerRegistry == nil || rt.Consensus == nil || rt.MintConsensus == nil ||
		rt.Inbox == nil || rt.Outbox == nil || rt.Detectors == nil || rt.Alerts == nil {
		t.Fatalf("expected every component to be wired")
	}

	if err := rt.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}

	reloaded, err := New(cfg, db, adapter.NewMemoryL1Adapter(), adapter.NewMemoryTransport())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.State.SumBalances() != 1000 {
		t.Fatalf("expected persisted balance to survive reload, got %d", reloaded.State.SumBalances())
	}
}
