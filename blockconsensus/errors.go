package blockconsensus

import "fmt"

type ErrorCode string

const (
	ErrBadParent       ErrorCode = "BC_ERR_BAD_PARENT"
	ErrBadTimestamp    ErrorCode = "BC_ERR_BAD_TIMESTAMP"
	ErrGasExceeded     ErrorCode = "BC_ERR_GAS_EXCEEDED"
	ErrBadProposer     ErrorCode = "BC_ERR_BAD_PROPOSER"
	ErrBadSignature    ErrorCode = "BC_ERR_BAD_SIGNATURE"
	ErrWrongSlot       ErrorCode = "BC_ERR_WRONG_SLOT"
	ErrEquivocation    ErrorCode = "BC_ERR_EQUIVOCATION"
	ErrUnknownSlot     ErrorCode = "BC_ERR_UNKNOWN_SLOT"
	ErrWrongState      ErrorCode = "BC_ERR_WRONG_STATE"
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
