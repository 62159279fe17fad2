package batch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zarc/internal/domain"
	"zarc/internal/keys"
)

// Issue ties a ledger result code to the instruction that produced it.
type Issue struct {
	Instruction domain.PaymentInstruction
	Code        string
}

func (i Issue) String() string {
	where := "payment"
	if i.Instruction.Line > 0 {
		where = fmt.Sprintf("line %d", i.Instruction.Line)
	}
	return fmt.Sprintf("%s %s %s: %s", where, keys.Short(i.Instruction.Destination), i.Instruction.Amount, i.Code)
}

// Failure is the error returned by Submit. It records where the submission
// stopped and which class of problem stopped it.
type Failure struct {
	ID     uuid.UUID
	Kind   domain.Kind
	State  State // the state that failed
	Err    error
	Signer string // address, when known
	Issues []Issue
}

func (f *Failure) Error() string {
	return fmt.Sprintf("submission %s failed while %s (%s error): %v", f.ID, f.State, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether the caller may try again. Only transport failures
// qualify, and only after confirming the earlier attempt did not land.
func (f *Failure) Retryable() bool { return f.Kind == domain.KindNetwork }

// Message is the text shown to people. Each failure class reads differently.
func (f *Failure) Message() string {
	var b strings.Builder
	switch f.Kind {
	case domain.KindInput:
		switch {
		case errors.Is(f.Err, domain.ErrMissingCredentials):
			b.WriteString("Please provide the employer secret and recipient data.")
		case errors.Is(f.Err, domain.ErrEmptyBatch):
			b.WriteString("The recipient list has no payments in it.")
		default:
			fmt.Fprintf(&b, "The recipient list needs fixing: %v.", f.Err)
		}
	case domain.KindCompliance:
		fmt.Fprintf(&b, "Disbursement blocked by compliance review: %v.", f.Err)
	case domain.KindCredentials:
		b.WriteString("The signer secret is not a valid secret key for this account.")
	case domain.KindAccount:
		fmt.Fprintf(&b, "Account %s does not exist on the network yet. Fund it with the faucet first.", f.Signer)
	case domain.KindNetwork:
		fmt.Fprintf(&b, "Could not reach the ledger while %s: %v. ", f.State, f.Err)
		b.WriteString("The outcome is unknown; check the account history before retrying.")
	case domain.KindValidation:
		code := ""
		var rej *domain.RejectionError
		if errors.As(f.Err, &rej) && rej.TransactionCode != "" {
			code = " (" + rej.TransactionCode + ")"
		}
		fmt.Fprintf(&b, "The ledger rejected the transaction%s. No payments were made.", code)
		for _, is := range f.Issues {
			b.WriteString("\n  ")
			b.WriteString(is.String())
		}
	default:
		fmt.Fprintf(&b, "Disbursement failed: %v.", f.Err)
	}
	return b.String()
}

// issuesFor maps per-operation result codes back onto the batch. Successful
// operations are skipped; they were rolled back with the rest.
func issuesFor(batch domain.RecipientBatch, err error) []Issue {
	var rej *domain.RejectionError
	if !errors.As(err, &rej) {
		var ae *AssemblyError
		if errors.As(err, &ae) {
			return []Issue{{Instruction: ae.Instruction, Code: ae.Err.Error()}}
		}
		return nil
	}
	var out []Issue
	for i, code := range rej.OperationCodes {
		if i >= len(batch) || code == "" || code == "op_success" {
			continue
		}
		out = append(out, Issue{Instruction: batch[i], Code: code})
	}
	return out
}
