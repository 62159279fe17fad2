package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies failures so callers can choose how to react.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindInput covers bad recipient text, amounts, empty batches and missing
	// credentials. Always detected before network activity.
	KindInput
	// KindCompliance is a batch blocked by a compliance policy.
	KindCompliance
	// KindCredentials is malformed key material.
	KindCredentials
	// KindAccount is an unfunded or unknown signer account.
	KindAccount
	// KindNetwork is a transport failure or timeout. Safe for the caller to
	// retry after checking the transaction did not land.
	KindNetwork
	// KindValidation is a ledger-side rejection. Nothing from the
	// transaction was applied.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindCompliance:
		return "compliance"
	case KindCredentials:
		return "credentials"
	case KindAccount:
		return "account"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyBatch         = errors.New("recipient batch is empty")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyFunded      = errors.New("account is already funded")
	ErrBlocked            = errors.New("blocked by compliance policy")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnavailable        = errors.New("ledger unavailable")
	ErrRejected           = errors.New("transaction rejected")
)

// RejectionError reports a ledger refusal together with its result codes.
type RejectionError struct {
	TransactionCode string
	// OperationCodes has one entry per operation when the ledger reports them.
	OperationCodes []string
	Cause          error
}

func (e *RejectionError) Error() string {
	var b strings.Builder
	b.WriteString("transaction rejected")
	if e.TransactionCode != "" {
		fmt.Fprintf(&b, ": %s", e.TransactionCode)
	}
	if len(e.OperationCodes) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.OperationCodes, ", "))
	}
	return b.String()
}

func (e *RejectionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRejected}
	}
	return []error{ErrRejected, e.Cause}
}

// KindOf maps err onto the failure taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrEmptyBatch),
		errors.Is(err, ErrAlreadyFunded),
		errors.Is(err, ErrInvalidInput):
		return KindInput
	case errors.Is(err, ErrBlocked):
		return KindCompliance
	case errors.Is(err, ErrInvalidCredentials):
		return KindCredentials
	case errors.Is(err, ErrAccountNotFound):
		return KindAccount
	case errors.Is(err, ErrRejected):
		return KindValidation
	case errors.Is(err, ErrUnavailable):
		return KindNetwork
	default:
		return KindUnknown
	}
}
