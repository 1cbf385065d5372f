package clm

import "github.com/cascoin/l2/codec"

// OutboxConfig parameterizes the L2->L1 challenge window.
type OutboxConfig struct {
	ChallengeDeadlineSecs uint64
}

func DefaultOutboxConfig() OutboxConfig {
	return OutboxConfig{ChallengeDeadlineSecs: 7 * 24 * 3600}
}

// Outbox tracks outbound L2->L1 messages through their challenge
// window. Not safe for concurrent use; it holds no lock of its own.
type Outbox struct {
	cfg      OutboxConfig
	messages map[codec.Hash]*L2ToL1Message
	order    []codec.Hash
}

func NewOutbox(cfg OutboxConfig) *Outbox {
	return &Outbox{cfg: cfg, messages: make(map[codec.Hash]*L2ToL1Message)}
}

// Submit records a new outbound message with its challenge deadline
// set relative to submittedAt.
func (ob *Outbox) Submit(msg L2ToL1Message, submittedAt uint64) *L2ToL1Message {
	if existing, ok := ob.messages[msg.MessageID]; ok {
		return existing
	}
	msg.SubmittedAt = submittedAt
	msg.ChallengeDeadline = submittedAt + ob.cfg.ChallengeDeadlineSecs
	msg.Status = OutboxPending
	stored := msg
	ob.messages[msg.MessageID] = &stored
	ob.order = append(ob.order, msg.MessageID)
	return &stored
}

// Challenge moves a pending message to CHALLENGED before its deadline
// passes. A challenge submitted after the deadline, or against a
// message that is no longer PENDING, is rejected.
func (ob *Outbox) Challenge(id codec.Hash, now uint64, reason string) error {
	m, ok := ob.messages[id]
	if !ok {
		return xerr(ErrUnknownMessage, "no outbound message with that id")
	}
	if m.Status != OutboxPending {
		return xerr(ErrAlreadyFinal, "message is no longer pending")
	}
	if now >= m.ChallengeDeadline {
		return xerr(ErrDeadlinePassed, "challenge deadline has passed")
	}
	m.Status = OutboxChallenged
	m.ChallengeReason = reason
	return nil
}

// Finalize transitions every PENDING message whose deadline has
// passed with no accepted challenge to FINALIZED, returning the ids
// that were finalized.
func (ob *Outbox) Finalize(now uint64) []codec.Hash {
	var finalized []codec.Hash
	for _, id := range ob.order {
		m := ob.messages[id]
		if m.Status == OutboxPending && now >= m.ChallengeDeadline {
			m.Status = OutboxFinalized
			finalized = append(finalized, id)
		}
	}
	return finalized
}

func (ob *Outbox) Get(id codec.Hash) (L2ToL1Message, bool) {
	m, ok := ob.messages[id]
	if !ok {
		return L2ToL1Message{}, false
	}
	return *m, true
}
