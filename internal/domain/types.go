package domain

import (
	"fmt"
	"time"
)

// Asset identifies a credit asset by its code and issuing account.
type Asset struct {
	Code   string
	Issuer string
	// Decimals is the number of fractional digits amounts may carry.
	Decimals int32
}

// String returns CODE:ISSUER.
func (a Asset) String() string { return a.Code + ":" + a.Issuer }

// PaymentInstruction is one parsed recipient line.
type PaymentInstruction struct {
	Destination string
	Amount      string // verbatim decimal text
	Line        int    // 1-based source line, 0 when not parsed from text
}

// RecipientBatch is an ordered list of payment instructions.
type RecipientBatch []PaymentInstruction

// NativeCode is the asset code reported for the ledger's native currency.
const NativeCode = "XLM"

// Balance is one trustline (or native) balance on an account.
type Balance struct {
	AssetCode   string
	AssetIssuer string
	Amount      string
}

// AccountState is the subset of a ledger account needed to build transactions.
type AccountState struct {
	Address  string
	Sequence int64
	Balances []Balance
}

// BalanceOf returns the balance held in asset and whether a trustline exists.
func (a AccountState) BalanceOf(asset Asset) (string, bool) {
	for _, b := range a.Balances {
		if b.AssetCode == asset.Code && b.AssetIssuer == asset.Issuer {
			return b.Amount, true
		}
	}
	return "0", false
}

// Operation is a single ledger operation carried by a TransactionRequest.
type Operation interface {
	operation()
}

// PaymentOp moves Amount of Asset to Destination.
type PaymentOp struct {
	Destination string
	Amount      string
	Asset       Asset
}

// ChangeTrustOp creates or updates a trustline for Asset.
type ChangeTrustOp struct {
	Asset Asset
	Limit string
}

func (PaymentOp) operation()     {}
func (ChangeTrustOp) operation() {}

// TransactionRequest is an unsigned transaction against one source account.
type TransactionRequest struct {
	Source     AccountState
	Operations []Operation
	BaseFee    int64         // per operation, in stroops
	Timeout    time.Duration // validity window; required
	Memo       *[32]byte     // optional hash memo
}

// Validate checks the fields every ledger client requires.
func (r TransactionRequest) Validate() error {
	if r.Source.Address == "" {
		return fmt.Errorf("transaction request: missing source account")
	}
	if len(r.Operations) == 0 {
		return fmt.Errorf("transaction request: no operations")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("transaction request: timeout must be positive")
	}
	if r.BaseFee <= 0 {
		return fmt.Errorf("transaction request: base fee must be positive")
	}
	return nil
}

// SignedTransaction is a signed, encoded transaction ready for submission.
type SignedTransaction struct {
	Hash     string // hex transaction hash
	Envelope string // base64 envelope
	Expires  time.Time
	Request  TransactionRequest
}
