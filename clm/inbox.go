package clm

import "github.com/cascoin/l2/codec"

// Executor applies one L1->L2 message's effect against L2 state. It
// returns an error if the call reverts; the Inbox interprets that as
// one failed attempt against the retry cap.
type Executor func(msg L1ToL2Message) error

// InboxConfig parameterizes the retry cap.
type InboxConfig struct {
	MaxRetries int
}

func DefaultInboxConfig() InboxConfig {
	return InboxConfig{MaxRetries: 3}
}

// Inbox queues L1->L2 messages and executes them under a per-message
// reentrancy guard, enforcing that execution never happens in the
// same L2 block the message was enqueued in. Not safe for
// concurrent use; it holds no lock of its own.
type Inbox struct {
	cfg       InboxConfig
	messages  map[codec.Hash]*queuedMessage
	order     []codec.Hash
	executing map[codec.Hash]bool
}

func NewInbox(cfg InboxConfig) *Inbox {
	return &Inbox{
		cfg:       cfg,
		messages:  make(map[codec.Hash]*queuedMessage),
		executing: make(map[codec.Hash]bool),
	}
}

// Enqueue admits a new message for execution no earlier than
// msg.EnqueuedAt+1. Idempotent: re-enqueueing the same message_id is a
// no-op so a relayer can safely retry the observation.
func (ib *Inbox) Enqueue(msg L1ToL2Message) {
	if _, ok := ib.messages[msg.MessageID]; ok {
		return
	}
	ib.messages[msg.MessageID] = &queuedMessage{msg: msg, status: MessagePending}
	ib.order = append(ib.order, msg.MessageID)
}

// Execute runs one message's effect via executor, enforcing the
// current+1 scheduling rule, the reentrancy guard, and the retry cap.
func (ib *Inbox) Execute(id codec.Hash, currentL2Block uint64, executor Executor) error {
	qm, ok := ib.messages[id]
	if !ok {
		return xerr(ErrUnknownMessage, "no queued message with that id")
	}
	if qm.status == MessageExecuted {
		return xerr(ErrAlreadyFinal, "message already executed")
	}
	if qm.status == MessageFailed {
		return xerr(ErrTerminallyFailed, "message exceeded its retry cap")
	}
	if currentL2Block < qm.msg.EnqueuedAt+1 {
		return xerr(ErrTooEarly, "a message cannot execute in the block it was enqueued in")
	}
	if ib.executing[id] {
		return xerr(ErrReentrancy, reentrancyMsg)
	}

	ib.executing[id] = true
	defer delete(ib.executing, id)

	err := executor(qm.msg)
	if err == nil {
		qm.status = MessageExecuted
		qm.lastError = ""
		return nil
	}

	qm.attempts++
	qm.lastError = err.Error()
	if qm.attempts >= ib.cfg.MaxRetries {
		qm.status = MessageFailed
	}
	return err
}

func (ib *Inbox) Status(id codec.Hash) (MessageStatus, int, bool) {
	qm, ok := ib.messages[id]
	if !ok {
		return 0, 0, false
	}
	return qm.status, qm.attempts, true
}

// Pending returns queued message ids awaiting execution, in
// enqueue order.
func (ib *Inbox) Pending() []codec.Hash {
	out := make([]codec.Hash, 0, len(ib.order))
	for _, id := range ib.order {
		if qm := ib.messages[id]; qm != nil && qm.status == MessagePending {
			out = append(out, id)
		}
	}
	return out
}
