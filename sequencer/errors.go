package sequencer

import "fmt"

type ErrorCode string

const (
	ErrBadChainID       ErrorCode = "SEQ_ERR_BAD_CHAIN_ID"
	ErrFutureTimestamp  ErrorCode = "SEQ_ERR_FUTURE_TIMESTAMP"
	ErrExpiredAnnounce  ErrorCode = "SEQ_ERR_EXPIRED_ANNOUNCEMENT"
	ErrNewerProtocol    ErrorCode = "SEQ_ERR_NEWER_PROTOCOL_VERSION"
	ErrBadSignature     ErrorCode = "SEQ_ERR_BAD_SIGNATURE"
	ErrStaleAnnounce    ErrorCode = "SEQ_ERR_STALE_ANNOUNCEMENT"
	ErrUnknownSequencer ErrorCode = "SEQ_ERR_UNKNOWN_SEQUENCER"
	ErrClaimTooFarAhead ErrorCode = "SEQ_ERR_CLAIM_FAILOVER_POSITION"
	ErrClaimStale       ErrorCode = "SEQ_ERR_CLAIM_TIMESTAMP"
)

type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func xerr(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
