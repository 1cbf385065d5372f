package clm

import "github.com/cascoin/l2/codec"

// MessageStatus is the lifecycle state of an L1->L2 message.
type MessageStatus int

const (
	MessagePending MessageStatus = iota
	MessageExecuted
	MessageFailed
)

func (s MessageStatus) String() string {
	switch s {
	case MessagePending:
		return "PENDING"
	case MessageExecuted:
		return "EXECUTED"
	case MessageFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// L1ToL2Message is one queued inbound cross-layer call.
type L1ToL2Message struct {
	MessageID   codec.Hash
	L1BlockNum  uint64
	EnqueuedAt  uint64 // L2 block number the message was enqueued at
	Sender      codec.Address
	Target      codec.Address
	Value       int64
	Data        []byte
}

// SignedPortion encodes the fields declared above, in order, for
// messages relayed by a bridge operator that signs the L1 observation.
func (m *L1ToL2Message) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Bytes32(m.MessageID).U64(m.L1BlockNum).U64(m.EnqueuedAt).
		Addr(m.Sender).Addr(m.Target).I64(m.Value).VarBytes(m.Data)
	return w.Bytes()
}

// L2ToL1OutboxStatus is the lifecycle state of an outbound message.
type L2ToL1OutboxStatus int

const (
	OutboxPending L2ToL1OutboxStatus = iota
	OutboxFinalized
	OutboxChallenged
)

func (s L2ToL1OutboxStatus) String() string {
	switch s {
	case OutboxPending:
		return "PENDING"
	case OutboxFinalized:
		return "FINALIZED"
	case OutboxChallenged:
		return "CHALLENGED"
	default:
		return "UNKNOWN"
	}
}

// L2ToL1Message is one outbound cross-layer message awaiting the
// challenge window before it can be relayed to L1.
type L2ToL1Message struct {
	MessageID        codec.Hash
	L2BlockNum       uint64
	Sender           codec.Address
	Target           []byte // L1-side recipient, chain-specific encoding
	Value            int64
	Data             []byte
	SubmittedAt      uint64
	ChallengeDeadline uint64
	Status           L2ToL1OutboxStatus
	ChallengeReason  string
}

func (m *L2ToL1Message) SignedPortion() []byte {
	w := codec.NewWriter()
	w.Bytes32(m.MessageID).U64(m.L2BlockNum).Addr(m.Sender).
		VarBytes(m.Target).I64(m.Value).VarBytes(m.Data).U64(m.SubmittedAt)
	return w.Bytes()
}

// queuedMessage is the internal record tracked by the Inbox, wrapping
// an L1ToL2Message with retry bookkeeping.
type queuedMessage struct {
	msg       L1ToL2Message
	status    MessageStatus
	attempts  int
	lastError string
}
