package batch_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"zarc/internal/batch"
	"zarc/internal/domain"
)

func TestThresholdPolicy(t *testing.T) {
	p := batch.ThresholdPolicy{
		ReviewAbove: decimal.NewFromInt(10000),
		BlockAbove:  decimal.NewFromInt(50000),
	}
	asset := domain.Asset{Code: "ZARC"}
	ctx := context.Background()

	small := domain.RecipientBatch{{Amount: "5000"}, {Amount: "5000"}}
	assert.Equal(t, batch.Allow, p.Check(ctx, asset, small).Verdict)

	review := domain.RecipientBatch{{Amount: "5000"}, {Amount: "5000.01"}}
	d := p.Check(ctx, asset, review)
	assert.Equal(t, batch.Flag, d.Verdict)
	assert.Contains(t, d.Reason, "10000.01 ZARC")

	huge := domain.RecipientBatch{{Amount: "50000.0000001"}}
	assert.Equal(t, batch.Block, p.Check(ctx, asset, huge).Verdict)

	assert.Equal(t, batch.Allow, batch.ThresholdPolicy{}.Check(ctx, asset, huge).Verdict)
}

func TestPolicyFuncAndAllowAll(t *testing.T) {
	var p batch.CompliancePolicy = batch.PolicyFunc(func(context.Context, domain.Asset, domain.RecipientBatch) batch.Decision {
		return batch.Decision{Verdict: batch.Block, Reason: "sanctioned"}
	})
	assert.Equal(t, batch.Block, p.Check(context.Background(), domain.Asset{}, nil).Verdict)
	assert.Equal(t, batch.Allow, batch.AllowAll{}.Check(context.Background(), domain.Asset{}, nil).Verdict)
	assert.Equal(t, "flag", batch.Flag.String())
}
