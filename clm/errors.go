// Package clm implements cross-layer messaging: the L1->L2 enqueue
// and execute pipeline with a per-message reentrancy guard and retry
// cap, and the L2->L1 challenge window.
package clm

import "fmt"

type ErrorCode string

const (
	ErrReentrancy      ErrorCode = "CLM_ERR_REENTRANCY"
	ErrUnknownMessage  ErrorCode = "CLM_ERR_UNKNOWN_MESSAGE"
	ErrTooEarly        ErrorCode = "CLM_ERR_TOO_EARLY"
	ErrTerminallyFailed ErrorCode = "CLM_ERR_TERMINALLY_FAILED"
	ErrAlreadyFinal    ErrorCode = "CLM_ERR_ALREADY_FINAL"
	ErrDeadlinePassed  ErrorCode = "CLM_ERR_CHALLENGE_DEADLINE_PASSED"
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

// reentrancyMsg is the exact sentinel text for a reentrant Execute
// call; callers that need to recognize it specifically can compare
// Error.Msg against it.
const reentrancyMsg = "Reentrancy detected"
