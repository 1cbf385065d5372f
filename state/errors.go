package state

import "fmt"

type ErrorCode string

const (
	ErrInsufficientBalance ErrorCode = "STATE_ERR_INSUFFICIENT_BALANCE"
	ErrBalanceOverflow     ErrorCode = "STATE_ERR_BALANCE_OVERFLOW"
	ErrUnknownSnapshot     ErrorCode = "STATE_ERR_UNKNOWN_SNAPSHOT_ROOT"
	ErrArchiveProofInvalid ErrorCode = "STATE_ERR_ARCHIVE_PROOF_MISMATCH"
	ErrDeprecatedPath      ErrorCode = "STATE_ERR_DEPRECATED_PATH"
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
