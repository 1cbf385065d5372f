package adapter

import (
	"testing"

	"github.com/cascoin/l2/clm"
	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/sequencer"
)

func TestMemoryL1AdapterFinality(t *testing.T) {
	a := NewMemoryL1Adapter()
	for i := uint64(1); i <= 10; i++ {
		a.Append(L1Block{Number: i})
	}
	if a.Tip() != 10 {
		t.Fatalf("expected tip 10, got %d", a.Tip())
	}
	if a.IsFinal(10, 6) {
		t.Fatalf("block 10 at tip 10 has only 1 confirmation")
	}
	if !a.IsFinal(5, 6) {
		t.Fatalf("block 5 at tip 10 has 6 confirmations and should be final")
	}
	if _, ok := a.BlockAt(999); ok {
		t.Fatalf("expected unseen block to report ok=false")
	}
}

func TestMemoryTransportFIFO(t *testing.T) {
	tr := NewMemoryTransport()
	if _, ok := tr.Recv(); ok {
		t.Fatalf("expected empty queue initially")
	}

	a1 := sequencer.Announce{ChainID: 7}
	if err := tr.SendSeqAnnounce(a1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var id codec.Hash
	id[0] = 1
	if err := tr.SendL2ToL1Message(clm.L2ToL1Message{MessageID: id}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := tr.Recv()
	if !ok {
		t.Fatalf("expected a queued message")
	}
	if ann, ok := got.(sequencer.Announce); !ok || ann.ChainID != 7 {
		t.Fatalf("expected the announce message back first (FIFO), got %#v", got)
	}

	got2, ok := tr.Recv()
	if !ok {
		t.Fatalf("expected a second queued message")
	}
	if msg, ok := got2.(clm.L2ToL1Message); !ok || msg.MessageID != id {
		t.Fatalf("expected the L2ToL1Message back second, got %#v", got2)
	}
}
