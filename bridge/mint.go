package bridge

import "github.com/cascoin/l2/state"

// ApplyMint performs the three-part atomic mint that runs once a
// burn reaches consensus: reject if the burn is already processed,
// credit the recipient in state, then mark the burn processed. The processed
// flag and the SMT credit land in the same call so a reorg that
// reverts the state-manager snapshot and this registry's flag always
// do so together.
func ApplyMint(m *state.Manager, registry *BurnRegistry, rec BurnRecord, blockNumber uint64) error {
	if registry.IsProcessed(rec.L1TxHash) {
		return xerr(ErrAlreadyProcessed, "l1_tx_hash already minted")
	}
	results := m.ApplyBatch([]state.Tx{{
		Kind:   state.TxMint,
		To:     rec.L2Recipient,
		Amount: rec.Amount,
		Hash:   rec.L2TxHash,
	}}, blockNumber, nil)
	if !results[0].Success {
		return results[0].Err
	}
	registry.RecordBurn(rec)
	registry.MarkProcessed(rec.L1TxHash, blockNumber, rec.L2TxHash)
	return nil
}
