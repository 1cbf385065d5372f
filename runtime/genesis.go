// Package runtime wires every rollup component — state, sequencer
// registry, block consensus, bridge, security supervisor, and
// cross-layer messaging — into one top-level node instance, mirroring
// the way node.Config composes the L1 daemon's subsystems.
package runtime

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cascoin/l2/codec"
)

// TokenConfig names the native asset the rollup mints and burns
// against the L1 bridge.
type TokenConfig struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// GenesisConfig is the full set of chain parameters fixed at genesis:
// chain_id, blocks_per_leader, leader_timeout_ms, consensus_threshold,
// vote_timeout_ms, min_hat, min_stake, min_peers,
// required_l1_confirmations, genesis_distribution, and token_config.
type GenesisConfig struct {
	ChainID                 uint64            `json:"chain_id"`
	BlocksPerLeader         uint64            `json:"blocks_per_leader"`
	LeaderTimeoutMs         uint64            `json:"leader_timeout_ms"`
	ConsensusThresholdNum   uint64            `json:"consensus_threshold_num"`
	ConsensusThresholdDenom uint64            `json:"consensus_threshold_denom"`
	VoteTimeoutMs           uint64            `json:"vote_timeout_ms"`
	MinHat                  uint32            `json:"min_hat"`
	MinStake                uint64            `json:"min_stake"`
	MinPeers                uint32            `json:"min_peers"`
	RequiredL1Confirmations uint64            `json:"required_l1_confirmations"`
	GenesisDistribution     map[string]int64  `json:"genesis_distribution"` // hex address -> amount
	TokenConfig             TokenConfig       `json:"token_config"`
}

func DefaultGenesisConfig(chainID uint64) GenesisConfig {
	return GenesisConfig{
		ChainID:                 chainID,
		BlocksPerLeader:         10,
		LeaderTimeoutMs:         5000,
		ConsensusThresholdNum:   2,
		ConsensusThresholdDenom: 3,
		VoteTimeoutMs:           3000,
		MinHat:                  1,
		MinStake:                1,
		MinPeers:                1,
		RequiredL1Confirmations: 6,
		GenesisDistribution:     map[string]int64{},
		TokenConfig:             TokenConfig{Symbol: "CAS2", Decimals: 8},
	}
}

func ValidateGenesisConfig(cfg GenesisConfig) error {
	if cfg.ChainID == 0 {
		return errors.New("chain_id must be nonzero")
	}
	if cfg.BlocksPerLeader == 0 {
		return errors.New("blocks_per_leader must be > 0")
	}
	if cfg.LeaderTimeoutMs == 0 {
		return errors.New("leader_timeout_ms must be > 0")
	}
	if cfg.ConsensusThresholdDenom == 0 || cfg.ConsensusThresholdNum == 0 ||
		cfg.ConsensusThresholdNum > cfg.ConsensusThresholdDenom {
		return errors.New("consensus_threshold must be a fraction in (0, 1]")
	}
	if cfg.VoteTimeoutMs == 0 {
		return errors.New("vote_timeout_ms must be > 0")
	}
	if cfg.RequiredL1Confirmations == 0 {
		return errors.New("required_l1_confirmations must be > 0")
	}
	for hexAddr, amount := range cfg.GenesisDistribution {
		if amount < 0 {
			return fmt.Errorf("genesis_distribution[%s]: negative amount", hexAddr)
		}
		if _, err := parseHexAddress(hexAddr); err != nil {
			return fmt.Errorf("genesis_distribution[%s]: %w", hexAddr, err)
		}
	}
	if cfg.TokenConfig.Symbol == "" {
		return errors.New("token_config.symbol is required")
	}
	return nil
}

func parseHexAddress(s string) (codec.Address, error) {
	var a codec.Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, err
	}
	if len(b) != codec.AddressSize {
		return a, fmt.Errorf("expected %d bytes, got %d", codec.AddressSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}
