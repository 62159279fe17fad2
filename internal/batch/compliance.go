package batch

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"zarc/internal/amount"
	"zarc/internal/domain"
)

// Verdict is the outcome of a compliance check.
type Verdict int

const (
	Allow Verdict = iota
	Flag          // proceed, but record the batch for review
	Block         // do not submit
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case Flag:
		return "flag"
	case Block:
		return "block"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Decision is a verdict with a human-readable reason.
type Decision struct {
	Verdict Verdict
	Reason  string
}

// CompliancePolicy screens a batch before it reaches the ledger.
type CompliancePolicy interface {
	Check(ctx context.Context, asset domain.Asset, batch domain.RecipientBatch) Decision
}

// PolicyFunc adapts a function to CompliancePolicy.
type PolicyFunc func(ctx context.Context, asset domain.Asset, batch domain.RecipientBatch) Decision

func (f PolicyFunc) Check(ctx context.Context, asset domain.Asset, batch domain.RecipientBatch) Decision {
	return f(ctx, asset, batch)
}

// AllowAll approves every batch.
type AllowAll struct{}

func (AllowAll) Check(context.Context, domain.Asset, domain.RecipientBatch) Decision {
	return Decision{Verdict: Allow}
}

// ThresholdPolicy flags batches whose total exceeds ReviewAbove and blocks
// those above BlockAbove. A zero threshold disables that rule.
type ThresholdPolicy struct {
	ReviewAbove decimal.Decimal
	BlockAbove  decimal.Decimal
}

func (p ThresholdPolicy) Check(_ context.Context, asset domain.Asset, batch domain.RecipientBatch) Decision {
	amounts := make([]string, len(batch))
	for i, in := range batch {
		amounts[i] = in.Amount
	}
	total, err := amount.Sum(amounts...)
	if err != nil {
		return Decision{Verdict: Block, Reason: "batch total cannot be computed: " + err.Error()}
	}
	switch {
	case p.BlockAbove.IsPositive() && total.GreaterThan(p.BlockAbove):
		return Decision{Verdict: Block, Reason: fmt.Sprintf("total %s %s exceeds limit %s", total, asset.Code, p.BlockAbove)}
	case p.ReviewAbove.IsPositive() && total.GreaterThan(p.ReviewAbove):
		return Decision{Verdict: Flag, Reason: fmt.Sprintf("total %s %s exceeds review threshold %s", total, asset.Code, p.ReviewAbove)}
	default:
		return Decision{Verdict: Allow}
	}
}
