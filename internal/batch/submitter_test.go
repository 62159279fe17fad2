package batch_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zarc/internal/batch"
	"zarc/internal/domain"
	"zarc/internal/keys"
	"zarc/internal/ledger/memledger"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) LoadAccount(ctx context.Context, address string) (domain.AccountState, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.AccountState), args.Error(1)
}

func (m *mockLedger) Sign(req domain.TransactionRequest, signer domain.Signer) (domain.SignedTransaction, error) {
	args := m.Called(req, signer)
	return args.Get(0).(domain.SignedTransaction), args.Error(1)
}

func (m *mockLedger) Submit(ctx context.Context, tx domain.SignedTransaction) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

var opts = batch.Options{Timeout: 30 * time.Second}

func mustSigner(t *testing.T) domain.Signer {
	t.Helper()
	s, err := keys.Generate()
	require.NoError(t, err)
	return s
}

func failureOf(t *testing.T, err error) *batch.Failure {
	t.Helper()
	var f *batch.Failure
	require.True(t, errors.As(err, &f), "want *batch.Failure, got %v", err)
	return f
}

// e2e wires a Submitter to an in-memory ledger with a funded employer and two
// recipients holding trustlines.
type e2e struct {
	ledger   *memledger.Ledger
	asset    domain.Asset
	employer domain.Signer
	to       []domain.Signer
}

func newE2E(t *testing.T, fundEmployer bool) e2e {
	t.Helper()
	ctx := context.Background()
	l := memledger.New("test net")
	issuer := mustSigner(t)
	env := e2e{ledger: l, employer: mustSigner(t), to: []domain.Signer{mustSigner(t), mustSigner(t)}}
	env.asset = domain.Asset{Code: "ZARC", Issuer: issuer.Address, Decimals: 7}

	require.NoError(t, l.Fund(ctx, issuer.Address))
	trusting := env.to
	if fundEmployer {
		require.NoError(t, l.Fund(ctx, env.employer.Address))
		trusting = append([]domain.Signer{env.employer}, env.to...)
	}
	for _, s := range env.to {
		require.NoError(t, l.Fund(ctx, s.Address))
	}
	for _, s := range trusting {
		acct, err := l.LoadAccount(ctx, s.Address)
		require.NoError(t, err)
		tx, err := l.Sign(domain.TransactionRequest{
			Source:     acct,
			Operations: []domain.Operation{domain.ChangeTrustOp{Asset: env.asset, Limit: "1000000000"}},
			BaseFee:    100,
			Timeout:    time.Minute,
		}, s)
		require.NoError(t, err)
		_, err = l.Submit(ctx, tx)
		require.NoError(t, err)
	}
	if fundEmployer {
		require.NoError(t, l.Issue(env.employer.Address, env.asset, "1000"))
	}
	return env
}

func (e e2e) recipients() string {
	return e.to[0].Address + ",100\n" + e.to[1].Address + ",50"
}

func TestSubmit_FundedSignerSucceeds(t *testing.T) {
	env := newE2E(t, true)
	s := batch.NewSubmitter(env.ledger, env.asset, batch.Options{Timeout: 30 * time.Second, Memo: true})

	var states []batch.State
	rc, err := s.Submit(context.Background(), batch.Request{
		Secret:     string(env.employer.Seed()),
		Recipients: env.recipients(),
		Progress:   func(st batch.Status) { states = append(states, st.State) },
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rc.TransactionID)
	assert.Equal(t, 2, rc.Payments)
	assert.Equal(t, env.employer.Address, rc.Signer)
	assert.Equal(t, []batch.State{
		batch.StateIdle,
		batch.StateLoadingAccount,
		batch.StateAssembling,
		batch.StateSigning,
		batch.StateSubmitting,
		batch.StateSucceeded,
	}, states)

	tx, ok := env.ledger.Transaction(rc.TransactionID)
	require.True(t, ok)
	require.Len(t, tx.Request.Operations, 2)
	assert.Equal(t, env.to[0].Address, tx.Request.Operations[0].(domain.PaymentOp).Destination)
	assert.Equal(t, env.to[1].Address, tx.Request.Operations[1].(domain.PaymentOp).Destination)

	acct, err := env.ledger.LoadAccount(context.Background(), env.to[0].Address)
	require.NoError(t, err)
	got, _ := acct.BalanceOf(env.asset)
	assert.Equal(t, "100.0000000", got)
}

func TestSubmit_AccountNotFoundSkipsSubmission(t *testing.T) {
	signer := mustSigner(t)
	lg := new(mockLedger)
	lg.On("LoadAccount", mock.Anything, signer.Address).
		Return(domain.AccountState{}, eris.Wrapf(domain.ErrAccountNotFound, "load %s", signer.Address)).Once()

	s := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 7}, opts)
	_, err := s.Submit(context.Background(), batch.Request{
		Secret:     string(signer.Seed()),
		Recipients: "GABC,100\nGDEF,50",
	})

	f := failureOf(t, err)
	assert.Equal(t, domain.KindAccount, f.Kind)
	assert.Equal(t, batch.StateLoadingAccount, f.State)
	assert.False(t, f.Retryable())
	assert.Contains(t, f.Message(), signer.Address)
	lg.AssertExpectations(t)
	lg.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
	lg.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmit_AccountNotFoundOnRealLedger(t *testing.T) {
	env := newE2E(t, false)
	s := batch.NewSubmitter(env.ledger, env.asset, opts)
	before := env.ledger.Submissions()

	_, err := s.Submit(context.Background(), batch.Request{
		Secret:     string(env.employer.Seed()),
		Recipients: env.recipients(),
	})
	assert.Equal(t, domain.KindAccount, failureOf(t, err).Kind)
	assert.Equal(t, before, env.ledger.Submissions())
}

func TestSubmit_InputErrorsNeverTouchTheNetwork(t *testing.T) {
	signer := mustSigner(t)
	seed := string(signer.Seed())
	cases := []struct {
		name string
		req  batch.Request
		kind domain.Kind
		is   error
	}{
		{"empty recipients", batch.Request{Secret: seed, Recipients: ""}, domain.KindInput, domain.ErrEmptyBatch},
		{"blank recipients", batch.Request{Secret: seed, Recipients: " \n\t\n"}, domain.KindInput, domain.ErrEmptyBatch},
		{"missing secret", batch.Request{Recipients: "GABC,1"}, domain.KindInput, domain.ErrMissingCredentials},
		{"malformed line", batch.Request{Secret: seed, Recipients: "GABC"}, domain.KindInput, domain.ErrInvalidInput},
		{"bad amount", batch.Request{Secret: seed, Recipients: "GABC,-5"}, domain.KindInput, domain.ErrInvalidInput},
		{"bad secret", batch.Request{Secret: "SBOGUS", Recipients: "GABC,1"}, domain.KindCredentials, domain.ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lg := new(mockLedger)
			s := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 7}, opts)

			_, err := s.Submit(context.Background(), tc.req)
			f := failureOf(t, err)
			assert.Equal(t, tc.kind, f.Kind)
			assert.Equal(t, batch.StateIdle, f.State)
			assert.ErrorIs(t, err, tc.is)
			assert.NotEmpty(t, f.Message())
			lg.AssertNotCalled(t, "LoadAccount", mock.Anything, mock.Anything)
			lg.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_ComplianceBlockAndFlag(t *testing.T) {
	env := newE2E(t, true)
	block := batch.PolicyFunc(func(context.Context, domain.Asset, domain.RecipientBatch) batch.Decision {
		return batch.Decision{Verdict: batch.Block, Reason: "recipient on deny list"}
	})
	lg := new(mockLedger)
	_, err := batch.NewSubmitter(lg, env.asset, opts, batch.WithPolicy(block)).Submit(context.Background(), batch.Request{
		Secret: string(env.employer.Seed()), Recipients: env.recipients(),
	})
	f := failureOf(t, err)
	assert.Equal(t, domain.KindCompliance, f.Kind)
	assert.Contains(t, f.Message(), "deny list")
	lg.AssertNotCalled(t, "LoadAccount", mock.Anything, mock.Anything)

	flag := batch.PolicyFunc(func(context.Context, domain.Asset, domain.RecipientBatch) batch.Decision {
		return batch.Decision{Verdict: batch.Flag, Reason: "large"}
	})
	rc, err := batch.NewSubmitter(env.ledger, env.asset, opts, batch.WithPolicy(flag)).Submit(context.Background(), batch.Request{
		Secret: string(env.employer.Seed()), Recipients: env.recipients(),
	})
	require.NoError(t, err)
	assert.Equal(t, batch.Flag, rc.Compliance.Verdict)
}

func TestSubmit_AssemblyErrorIsReportedBeforeSigning(t *testing.T) {
	signer := mustSigner(t)
	lg := new(mockLedger)
	lg.On("LoadAccount", mock.Anything, signer.Address).
		Return(domain.AccountState{Address: signer.Address, Sequence: 7}, nil).Once()

	s := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 2}, opts)
	_, err := s.Submit(context.Background(), batch.Request{
		Secret:     string(signer.Seed()),
		Recipients: "GABC,1\nGDEF,0.001",
	})
	f := failureOf(t, err)
	assert.Equal(t, batch.StateAssembling, f.State)
	assert.Equal(t, domain.KindInput, f.Kind)
	require.Len(t, f.Issues, 1)
	assert.Equal(t, 2, f.Issues[0].Instruction.Line)
	lg.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
	lg.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmit_NetworkFailureIsSingleAttemptAndRetryable(t *testing.T) {
	signer := mustSigner(t)
	lg := new(mockLedger)
	lg.On("LoadAccount", mock.Anything, signer.Address).
		Return(domain.AccountState{Address: signer.Address, Sequence: 7}, nil)
	lg.On("Sign", mock.Anything, mock.Anything).
		Return(domain.SignedTransaction{Hash: "abc"}, nil)
	lg.On("Submit", mock.Anything, mock.Anything).
		Return("", errors.New("read tcp: i/o timeout"))

	s := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 7}, opts)
	_, err := s.Submit(context.Background(), batch.Request{Secret: string(signer.Seed()), Recipients: "GABC,1"})

	f := failureOf(t, err)
	assert.Equal(t, domain.KindNetwork, f.Kind)
	assert.Equal(t, batch.StateSubmitting, f.State)
	assert.True(t, f.Retryable())
	assert.Contains(t, f.Message(), "check the account history before retrying")
	lg.AssertNumberOfCalls(t, "Submit", 1)
}

func TestSubmit_LoadTransportErrorIsNetworkKind(t *testing.T) {
	signer := mustSigner(t)
	lg := new(mockLedger)
	lg.On("LoadAccount", mock.Anything, signer.Address).
		Return(domain.AccountState{}, eris.Wrap(domain.ErrUnavailable, "horizon 503"))

	_, err := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 7}, opts).
		Submit(context.Background(), batch.Request{Secret: string(signer.Seed()), Recipients: "GABC,1"})
	f := failureOf(t, err)
	assert.Equal(t, domain.KindNetwork, f.Kind)
	assert.NotEqual(t, domain.KindAccount, f.Kind)
}

func TestSubmit_RejectionMapsCodesToLines(t *testing.T) {
	signer := mustSigner(t)
	lg := new(mockLedger)
	lg.On("LoadAccount", mock.Anything, signer.Address).
		Return(domain.AccountState{Address: signer.Address, Sequence: 7}, nil)
	lg.On("Sign", mock.Anything, mock.Anything).
		Return(domain.SignedTransaction{Hash: "abc"}, nil)
	lg.On("Submit", mock.Anything, mock.Anything).
		Return("", &domain.RejectionError{TransactionCode: "tx_failed", OperationCodes: []string{"op_success", "op_no_trust"}})

	var last batch.Status
	_, err := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 7}, opts).
		Submit(context.Background(), batch.Request{
			Secret:     string(signer.Seed()),
			Recipients: "GAAAAAAAAAAAAAAA,1\n\nGBBBBBBBBBBBBBBB,2",
			Progress:   func(st batch.Status) { last = st },
		})
	f := failureOf(t, err)
	assert.Equal(t, domain.KindValidation, f.Kind)
	assert.False(t, f.Retryable())
	require.Len(t, f.Issues, 1)
	assert.Equal(t, 3, f.Issues[0].Instruction.Line)
	assert.Equal(t, "op_no_trust", f.Issues[0].Code)

	msg := f.Message()
	assert.Contains(t, msg, "(tx_failed)")
	assert.Contains(t, msg, "No payments were made")
	assert.Contains(t, msg, "line 3")
	assert.Equal(t, batch.StateFailed, last.State)
	assert.Equal(t, msg, last.Message)
}

func TestSubmit_DistinctMessagesPerKind(t *testing.T) {
	msgs := map[string]domain.Kind{}
	for _, k := range []domain.Kind{
		domain.KindInput, domain.KindCompliance, domain.KindCredentials,
		domain.KindAccount, domain.KindNetwork, domain.KindValidation,
	} {
		f := &batch.Failure{Kind: k, Err: errors.New("x")}
		m := f.Message()
		prev, dup := msgs[m]
		require.False(t, dup, "%s and %s share message %q", prev, k, m)
		msgs[m] = k
	}
}

func TestSubmit_SecretNeverInErrors(t *testing.T) {
	signer := mustSigner(t)
	seed := string(signer.Seed())
	lg := new(mockLedger)
	lg.On("LoadAccount", mock.Anything, signer.Address).
		Return(domain.AccountState{}, eris.Wrap(domain.ErrAccountNotFound, "nope"))

	_, err := batch.NewSubmitter(lg, domain.Asset{Code: "ZARC", Decimals: 7}, opts).
		Submit(context.Background(), batch.Request{Secret: seed, Recipients: "GABC,1"})
	f := failureOf(t, err)
	assert.False(t, strings.Contains(f.Error(), seed))
	assert.False(t, strings.Contains(f.Message(), seed))
}
