package types

import (
	"fmt"

	"github.com/pkg/errors"
)

const Codespace = "signedvoting"

type ErrorKind string

const (
	KindAuthorizationFailure ErrorKind = "AuthorizationFailure"
	KindDuplicateRecord      ErrorKind = "DuplicateRecord"
	KindInsufficientFunds    ErrorKind = "InsufficientFunds"
	KindInvalidPayer         ErrorKind = "InvalidPayer"
	KindInvalidAccount       ErrorKind = "InvalidAccount"
	KindInvalidTransaction   ErrorKind = "InvalidTransaction"
)

// Error is a failure that aborts a transaction and is reported to the
// caller through the tx result code.
type Error struct {
	Code uint32
	Kind ErrorKind
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(code uint32, kind ErrorKind, name, msg string) *Error {
	return &Error{Code: code, Kind: kind, Name: name, Msg: msg}
}

var (
	ErrInvalidTx         = newError(1, KindInvalidTransaction, "InvalidTx", "invalid tx")
	ErrSignatureInvalid  = newError(2, KindAuthorizationFailure, "SignatureInvalid", "signature invalid")
	ErrNonceInvalid      = newError(3, KindAuthorizationFailure, "NonceInvalid", "nonce invalid")
	ErrUnsupportedTxType = newError(6, KindInvalidTransaction, "UnsupportedTxType", "unsupported tx type")
	ErrAccountNotFound   = newError(7, KindInvalidAccount, "AccountNotFound", "account not found")

	ErrAccountAlreadyInUse = newError(4, KindDuplicateRecord, "AccountAlreadyInUse", "account already in use")
	ErrInsufficientFunds   = newError(5, KindInsufficientFunds, "InsufficientFunds", "insufficient lamports")

	ErrConstraintSeeds              = newError(2006, KindInvalidAccount, "ConstraintSeeds", "a seeds constraint was violated")
	ErrAccountDiscriminatorMismatch = newError(3002, KindInvalidAccount, "AccountDiscriminatorMismatch", "account discriminator did not match what was expected")
	ErrAccountOwnedByWrongProgram   = newError(3007, KindInvalidAccount, "AccountOwnedByWrongProgram", "the given account is owned by a different program than expected")
	ErrAccountNotSigner             = newError(3010, KindAuthorizationFailure, "AccountNotSigner", "the given account did not sign")
	ErrAccountNotInitialized        = newError(3012, KindInvalidAccount, "AccountNotInitialized", "the program expected this account to be already initialized")

	ErrInvalidPayer = newError(6000, KindInvalidPayer, "InvalidPayer", "Invalid payer - must be the proposal's original payer")
)

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the result code for err; unknown errors map to 1.
func CodeOf(err error) uint32 {
	if err == nil {
		return 0
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ErrInvalidTx.Code
}

func KindOf(err error) ErrorKind {
	if e, ok := asError(err); ok {
		return e.Kind
	}
	return KindInvalidTransaction
}

// ResultLog renders err the way it is written into tx results.
func ResultLog(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", KindOf(err), err.Error())
}
