package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"zarc/internal/domain"
	"zarc/internal/keys"
	"zarc/internal/recipients"
)

// Request is the input to one submission. Batch, when non-empty, is used as
// is; otherwise Recipients is parsed.
type Request struct {
	Secret     string
	Recipients string
	Batch      domain.RecipientBatch
	// Progress, when set, receives a Status on every transition.
	Progress func(Status)
}

// Receipt describes a committed transaction.
type Receipt struct {
	ID            uuid.UUID
	TransactionID string
	Hash          string
	Signer        string
	Payments      int
	Digest        string // see Digest
	Compliance    Decision
}

// Submitter runs the load -> assemble -> sign -> submit flow against a ledger.
// It holds no per-submission state and may be shared.
type Submitter struct {
	ledger domain.Ledger
	asset  domain.Asset
	opts   Options
	policy CompliancePolicy
	parse  func(string) (domain.RecipientBatch, error)
	log    zerolog.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithPolicy screens every batch with p before touching the network.
func WithPolicy(p CompliancePolicy) Option { return func(s *Submitter) { s.policy = p } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l zerolog.Logger) Option { return func(s *Submitter) { s.log = l } }

// WithStrictAddresses validates every destination while parsing.
func WithStrictAddresses() Option { return func(s *Submitter) { s.parse = recipients.ParseStrict } }

// NewSubmitter returns a Submitter paying asset through ledger.
func NewSubmitter(ledger domain.Ledger, asset domain.Asset, opts Options, options ...Option) *Submitter {
	s := &Submitter{
		ledger: ledger,
		asset:  asset,
		opts:   opts,
		policy: AllowAll{},
		parse:  recipients.Parse,
		log:    zerolog.Nop(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Submit performs one batch submission. Every failure is a *Failure.
func (s *Submitter) Submit(ctx context.Context, req Request) (Receipt, error) {
	r := &run{
		id:       uuid.New(),
		progress: req.Progress,
	}
	r.log = s.log.With().Str("submission_id", r.id.String()).Logger()
	r.emit(StateIdle, "Processing bulk disbursement...")

	if strings.TrimSpace(req.Secret) == "" {
		return Receipt{}, r.fail(domain.ErrMissingCredentials)
	}
	batch := req.Batch
	if len(batch) == 0 {
		var err error
		if batch, err = s.parse(req.Recipients); err != nil {
			return Receipt{}, r.fail(err)
		}
	}
	if len(batch) == 0 {
		return Receipt{}, r.fail(domain.ErrEmptyBatch)
	}
	r.batch = batch

	signer, err := keys.FromSecret(req.Secret)
	if err != nil {
		return Receipt{}, r.fail(err)
	}
	defer signer.Wipe()
	r.signer = signer.Address
	r.log = r.log.With().Str("signer", signer.Address).Int("payments", len(batch)).Logger()

	decision := s.policy.Check(ctx, s.asset, batch)
	switch decision.Verdict {
	case Block:
		return Receipt{}, r.fail(eris.Wrap(domain.ErrBlocked, decision.Reason))
	case Flag:
		r.log.Warn().Str("reason", decision.Reason).Msg("disbursement flagged for review")
	}

	r.emit(StateLoadingAccount, "Loading account %s...", keys.Short(signer.Address))
	account, err := s.ledger.LoadAccount(ctx, signer.Address)
	if err != nil {
		return Receipt{}, r.fail(err)
	}

	r.emit(StateAssembling, "Building transaction with %d payments...", len(batch))
	tx, err := Assemble(signer, batch, s.asset, account, s.opts)
	if err != nil {
		return Receipt{}, r.fail(err)
	}

	r.emit(StateSigning, "Signing transaction...")
	signed, err := s.ledger.Sign(tx, signer)
	if err != nil {
		return Receipt{}, r.fail(err)
	}

	r.emit(StateSubmitting, "Submitting transaction %s...", signed.Hash)
	txID, err := s.ledger.Submit(ctx, signed)
	if err != nil {
		return Receipt{}, r.fail(err)
	}

	rc := Receipt{
		ID:            r.id,
		TransactionID: txID,
		Hash:          signed.Hash,
		Signer:        signer.Address,
		Payments:      len(batch),
		Digest:        DigestHex(batch, s.asset),
		Compliance:    decision,
	}
	r.emit(StateSucceeded, "Bulk disbursement successful! Transaction %s", txID)
	r.log.Info().Str("tx", txID).Str("digest", rc.Digest).Msg("disbursement committed")
	return rc, nil
}

type run struct {
	id       uuid.UUID
	state    State
	signer   string
	batch    domain.RecipientBatch
	progress func(Status)
	log      zerolog.Logger
}

func (r *run) emit(st State, format string, args ...any) {
	r.state = st
	msg := fmt.Sprintf(format, args...)
	r.log.Debug().Stringer("state", st).Msg(msg)
	if r.progress != nil {
		r.progress(Status{ID: r.id, State: st, Message: msg})
	}
}

func (r *run) fail(err error) *Failure {
	f := &Failure{
		ID:     r.id,
		Kind:   kindFor(r.state, err),
		State:  r.state,
		Err:    err,
		Signer: r.signer,
		Issues: issuesFor(r.batch, err),
	}
	r.log.Error().Err(err).Stringer("state", f.State).Stringer("kind", f.Kind).Msg("disbursement failed")
	r.state = StateFailed
	if r.progress != nil {
		r.progress(Status{ID: r.id, State: StateFailed, Message: f.Message()})
	}
	return f
}

// kindFor falls back on the failing state when err carries no classification.
func kindFor(st State, err error) domain.Kind {
	if k := domain.KindOf(err); k != domain.KindUnknown {
		return k
	}
	switch st {
	case StateLoadingAccount, StateSubmitting:
		return domain.KindNetwork
	case StateSigning:
		return domain.KindCredentials
	default:
		return domain.KindInput
	}
}
