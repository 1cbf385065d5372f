package adapter

import (
	"sync"

	"github.com/cascoin/l2/blockconsensus"
	"github.com/cascoin/l2/bridge"
	"github.com/cascoin/l2/clm"
	"github.com/cascoin/l2/sequencer"
)

// MemoryL1Adapter is an in-process L1Adapter backed by a map of blocks
// keyed by number, for devnets and tests. Safe for concurrent use.
type MemoryL1Adapter struct {
	mu     sync.Mutex
	blocks map[uint64]L1Block
	tip    uint64
}

var _ L1Adapter = (*MemoryL1Adapter)(nil)

func NewMemoryL1Adapter() *MemoryL1Adapter {
	return &MemoryL1Adapter{blocks: make(map[uint64]L1Block)}
}

// Append adds a new L1 block; blocks must be appended in ascending
// order since Tip() only ever tracks the highest number seen.
func (a *MemoryL1Adapter) Append(b L1Block) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocks[b.Number] = b
	if b.Number > a.tip {
		a.tip = b.Number
	}
}

func (a *MemoryL1Adapter) BlockAt(number uint64) (L1Block, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.blocks[number]
	return b, ok
}

func (a *MemoryL1Adapter) Tip() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tip
}

func (a *MemoryL1Adapter) IsFinal(number uint64, requiredConfirmations uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if number > a.tip {
		return false
	}
	return a.tip-number+1 >= requiredConfirmations
}

// MemoryTransport is an in-process fan-out Transport for devnets and
// tests: every Send appends to a single inbound queue drained by Recv.
// Safe for concurrent use.
type MemoryTransport struct {
	mu    sync.Mutex
	queue []any
}

var _ Transport = (*MemoryTransport)(nil)

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{}
}

func (t *MemoryTransport) push(msg any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, msg)
	return nil
}

func (t *MemoryTransport) Recv() (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return nil, false
	}
	msg := t.queue[0]
	t.queue = t.queue[1:]
	return msg, true
}

func (t *MemoryTransport) SendSeqAnnounce(m sequencer.Announce) error          { return t.push(m) }
func (t *MemoryTransport) SendAttestation(m sequencer.Attestation) error       { return t.push(m) }
func (t *MemoryTransport) SendBlockProposal(m blockconsensus.BlockProposal) error {
	return t.push(m)
}
func (t *MemoryTransport) SendVote(m blockconsensus.SequencerVote) error       { return t.push(m) }
func (t *MemoryTransport) SendLeadershipClaim(m sequencer.LeadershipClaim) error {
	return t.push(m)
}
func (t *MemoryTransport) SendMintConfirmation(m bridge.MintConfirmation) error {
	return t.push(m)
}
func (t *MemoryTransport) SendL1ToL2Message(m clm.L1ToL2Message) error { return t.push(m) }
func (t *MemoryTransport) SendL2ToL1Message(m clm.L2ToL1Message) error { return t.push(m) }
