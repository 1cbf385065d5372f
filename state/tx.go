package state

import "github.com/cascoin/l2/codec"

// TxKind distinguishes a plain value transfer from a system mint
// or a contract call routed through a ContractHook.
type TxKind int

const (
	TxTransfer TxKind = iota
	TxMint
	TxContractCall
)

// Tx is one state-mutating operation within a block.
type Tx struct {
	Kind     TxKind
	From     codec.Address
	To       codec.Address
	Amount   int64
	GasLimit uint64
	Data     []byte
	Hash     codec.Hash
}

// ContractHook is the pluggable, deterministic execution hook for
// TxContractCall transactions.
type ContractHook func(m *Manager, tx Tx) (gasUsed uint64, err error)

// TxResult reports the outcome of one transaction within a batch.
type TxResult struct {
	Success  bool
	GasUsed  uint64
	Root     codec.Hash
	Err      error
	Terminal bool // set on every tx after the first failure in the batch
}

// ApplyBatch applies txs in order against a cloned accounts tree so the
// whole batch is all-or-nothing: on any tx failure the clone is
// discarded, the failing tx's result carries the error, and every
// subsequent tx in the batch is reported as a terminal failure without
// being executed.
func (m *Manager) ApplyBatch(txs []Tx, blockNumber uint64, hook ContractHook) []TxResult {
	results := make([]TxResult, len(txs))

	original := m.accounts
	originalIndex := m.addressIndex
	originalSupply := m.totalSupply
	clonedIndex := make(map[codec.Address]struct{}, len(originalIndex))
	for a := range originalIndex {
		clonedIndex[a] = struct{}{}
	}
	m.accounts = original.Clone()
	m.addressIndex = clonedIndex

	failed := false
	for i, tx := range txs {
		if failed {
			results[i] = TxResult{Terminal: true, Err: xerr(ErrInsufficientBalance, "skipped after prior batch failure")}
			continue
		}
		gasUsed, err := m.applyOne(tx, blockNumber, hook)
		if err != nil {
			failed = true
			results[i] = TxResult{Success: false, Err: err}
			continue
		}
		results[i] = TxResult{Success: true, GasUsed: gasUsed, Root: m.Root()}
	}

	if failed {
		m.accounts = original
		m.addressIndex = originalIndex
		m.totalSupply = originalSupply
	}
	return results
}

func (m *Manager) applyOne(tx Tx, blockNumber uint64, hook ContractHook) (uint64, error) {
	switch tx.Kind {
	case TxTransfer:
		if err := m.debit(tx.From, tx.Amount, blockNumber); err != nil {
			return 0, err
		}
		if err := m.credit(tx.To, tx.Amount, blockNumber); err != nil {
			return 0, err
		}
		return 0, nil

	case TxMint:
		if err := m.credit(tx.To, tx.Amount, blockNumber); err != nil {
			return 0, err
		}
		m.totalSupply += tx.Amount
		return 0, nil

	case TxContractCall:
		if hook == nil {
			return 0, xerr(ErrDeprecatedPath, "no contract hook configured")
		}
		return hook(m, tx)

	default:
		return 0, xerr(ErrDeprecatedPath, "unknown tx kind")
	}
}
