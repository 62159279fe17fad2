package batch

import (
	"errors"
	"fmt"
	"time"

	"zarc/internal/amount"
	"zarc/internal/domain"
)

const (
	// MaxOperations is the ledger's per-transaction operation limit.
	MaxOperations = 100
	// DefaultBaseFee is the minimum per-operation fee in stroops.
	DefaultBaseFee int64 = 100
)

var (
	ErrMissingTimeout    = errors.New("transaction timeout is required")
	ErrTooManyOperations = fmt.Errorf("batch exceeds %d payments", MaxOperations)
	ErrSourceMismatch    = errors.New("signer does not control the loaded account")
	ErrNoDestination     = errors.New("payment has no destination")
)

// Options are the transaction parameters that do not come from the batch.
type Options struct {
	BaseFee int64         // per operation; DefaultBaseFee when zero
	Timeout time.Duration // validity window; must be set
	Memo    bool          // attach the batch digest as a hash memo
}

// AssemblyError points at the instruction that could not become an operation.
type AssemblyError struct {
	Index       int
	Instruction domain.PaymentInstruction
	Err         error
}

func (e *AssemblyError) Error() string {
	where := fmt.Sprintf("payment %d", e.Index+1)
	if e.Instruction.Line > 0 {
		where = fmt.Sprintf("line %d", e.Instruction.Line)
	}
	return fmt.Sprintf("%s (%s %s): %v", where, e.Instruction.Destination, e.Instruction.Amount, e.Err)
}

func (e *AssemblyError) Unwrap() []error { return []error{domain.ErrInvalidInput, e.Err} }

// Assemble folds batch into one transaction request paid from account.
//
// Amounts are copied verbatim. Empty batches are rejected rather than turned
// into a zero-operation transaction the ledger would refuse anyway.
func Assemble(
	signer domain.Signer,
	batch domain.RecipientBatch,
	asset domain.Asset,
	account domain.AccountState,
	opts Options,
) (domain.TransactionRequest, error) {
	if len(batch) == 0 {
		return domain.TransactionRequest{}, domain.ErrEmptyBatch
	}
	if len(batch) > MaxOperations {
		return domain.TransactionRequest{}, fmt.Errorf("%w: %w (%d)", domain.ErrInvalidInput, ErrTooManyOperations, len(batch))
	}
	if opts.Timeout <= 0 {
		return domain.TransactionRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrMissingTimeout)
	}
	if signer.Address == "" || signer.Address != account.Address {
		return domain.TransactionRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, ErrSourceMismatch)
	}

	ops := make([]domain.Operation, 0, len(batch))
	for i, in := range batch {
		if in.Destination == "" {
			return domain.TransactionRequest{}, &AssemblyError{Index: i, Instruction: in, Err: ErrNoDestination}
		}
		if err := amount.Validate(in.Amount, asset.Decimals); err != nil {
			return domain.TransactionRequest{}, &AssemblyError{Index: i, Instruction: in, Err: err}
		}
		ops = append(ops, domain.PaymentOp{Destination: in.Destination, Amount: in.Amount, Asset: asset})
	}

	fee := opts.BaseFee
	if fee == 0 {
		fee = DefaultBaseFee
	}
	req := domain.TransactionRequest{
		Source:     account,
		Operations: ops,
		BaseFee:    fee,
		Timeout:    opts.Timeout,
	}
	if opts.Memo {
		d := Digest(batch, asset)
		req.Memo = &d
	}
	return req, nil
}
