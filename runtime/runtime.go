package runtime

import (
	"fmt"

	"github.com/cascoin/l2/adapter"
	"github.com/cascoin/l2/blockconsensus"
	"github.com/cascoin/l2/bridge"
	"github.com/cascoin/l2/clm"
	"github.com/cascoin/l2/crypto"
	"github.com/cascoin/l2/security"
	"github.com/cascoin/l2/sequencer"
	"github.com/cascoin/l2/state"
	"github.com/cascoin/l2/store"
)

// L2Runtime is the top-level node: it owns one instance of every
// component and wires them to a shared signature verifier, L1
// adapter, and transport. Neither L2Runtime nor the components it
// owns hold any lock (only the in-memory adapter and transport do),
// so it is not safe for concurrent use.
type L2Runtime struct {
	Genesis GenesisConfig

	DB        *store.DB
	State     *state.Manager
	Verifier  crypto.Secp256k1Provider
	L1        adapter.L1Adapter
	Transport adapter.Transport

	SequencerRegistry *sequencer.Registry
	Failover          *sequencer.FailoverTracker
	Consensus         *blockconsensus.Coordinator
	BurnRegistry      *bridge.BurnRegistry
	MintConsensus     *bridge.MintConsensusTracker
	Inbox             *clm.Inbox
	Outbox            *clm.Outbox

	Detectors     *security.Detectors
	CircuitBreaker *security.CircuitBreaker
	Alerts        *security.AlertManager
	AuditLog      *security.AuditLog
}

// New constructs every component from genesis parameters, against a
// caller-provided store, L1 adapter, and transport (no singletons —
// every dependency is passed in explicitly so multiple chains or a
// test harness can run side by side in one process).
func New(genesis GenesisConfig, db *store.DB, l1 adapter.L1Adapter, transport adapter.Transport) (*L2Runtime, error) {
	if err := ValidateGenesisConfig(genesis); err != nil {
		return nil, fmt.Errorf("runtime: invalid genesis config: %w", err)
	}

	mgr, err := db.LoadManager()
	if err != nil {
		return nil, fmt.Errorf("runtime: load state: %w", err)
	}
	if err := applyGenesisDistribution(mgr, genesis); err != nil {
		return nil, fmt.Errorf("runtime: apply genesis distribution: %w", err)
	}

	verifier := crypto.Secp256k1Provider{}

	seqCfg := sequencer.DefaultConfig(genesis.ChainID)
	seqCfg.MinHat = genesis.MinHat
	seqCfg.MinStake = genesis.MinStake
	seqCfg.MinPeers = genesis.MinPeers
	seqCfg.BlocksPerLeader = genesis.BlocksPerLeader

	consensusCfg := blockconsensus.DefaultConfig(genesis.ChainID)
	consensusCfg.VoteTimeoutSecs = genesis.VoteTimeoutMs / 1000
	consensusCfg.ConsensusNumerator = genesis.ConsensusThresholdNum
	consensusCfg.ConsensusDenominator = genesis.ConsensusThresholdDenom

	bridgeCfg := bridge.DefaultConfig(genesis.ChainID)

	breaker := security.NewCircuitBreaker(security.DefaultCircuitBreakerConfig())
	audit := security.NewAuditLog(security.DefaultAuditLogCapacity)

	rt := &L2Runtime{
		Genesis:           genesis,
		DB:                db,
		State:             mgr,
		Verifier:          verifier,
		L1:                l1,
		Transport:         transport,
		SequencerRegistry: sequencer.NewRegistry(seqCfg, verifier),
		Failover:          sequencer.NewFailoverTracker(verifier),
		Consensus:         blockconsensus.NewCoordinator(consensusCfg, verifier),
		BurnRegistry:      bridge.NewBurnRegistry(),
		MintConsensus:     bridge.NewMintConsensusTracker(bridgeCfg, verifier),
		Inbox:             clm.NewInbox(clm.DefaultInboxConfig()),
		Outbox:            clm.NewOutbox(clm.DefaultOutboxConfig()),
		Detectors:         security.NewDetectors(security.DefaultDetectorConfig()),
		CircuitBreaker:    breaker,
		Alerts:            security.NewAlertManager(breaker, audit),
		AuditLog:          audit,
	}
	rt.CircuitBreaker.SetTVL(mgr.SumBalances())
	return rt, nil
}

func applyGenesisDistribution(mgr *state.Manager, genesis GenesisConfig) error {
	for hexAddr, amount := range genesis.GenesisDistribution {
		addr, err := parseHexAddress(hexAddr)
		if err != nil {
			return err
		}
		if _, ok := mgr.GetAccount(addr); ok {
			continue // already applied in a prior run; DB is the source of truth.
		}
		if err := mgr.SetAccount(addr, state.Account{Balance: amount}); err != nil {
			return fmt.Errorf("address %s: %w", hexAddr, err)
		}
	}
	return nil
}

// Persist flushes the current state manager to the store, called
// after each finalized block.
func (rt *L2Runtime) Persist() error {
	return rt.DB.SaveManager(rt.State)
}
