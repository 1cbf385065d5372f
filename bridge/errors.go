package bridge

import "fmt"

type ErrorCode string

const (
	ErrAlreadyProcessed ErrorCode = "BRIDGE_ERR_ALREADY_PROCESSED"
	ErrNotEligible      ErrorCode = "BRIDGE_ERR_SIGNER_NOT_ELIGIBLE"
	ErrBadSignature     ErrorCode = "BRIDGE_ERR_BAD_SIGNATURE"
	ErrBadChainID       ErrorCode = "BRIDGE_ERR_BAD_CHAIN_ID"
	ErrStaleTimestamp   ErrorCode = "BRIDGE_ERR_STALE_TIMESTAMP"
	ErrDuplicateSigner  ErrorCode = "BRIDGE_ERR_DUPLICATE_SIGNER"
	ErrAmountMismatch   ErrorCode = "BRIDGE_ERR_AMOUNT_MISMATCH"
	ErrUnknownBurn      ErrorCode = "BRIDGE_ERR_UNKNOWN_BURN"
	ErrWrongStatus      ErrorCode = "BRIDGE_ERR_WRONG_STATUS"
	ErrCircuitBroken    ErrorCode = "BRIDGE_ERR_CIRCUIT_BREAKER_TRIGGERED"
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
