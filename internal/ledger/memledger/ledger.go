package memledger

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"golang.org/x/crypto/blake2b"

	"zarc/internal/amount"
	"zarc/internal/domain"
	"zarc/internal/keys"
)

// FundAmount is the native balance given to accounts created by Fund.
const FundAmount = "10000"

var stroop = decimal.New(1, -amount.LedgerDecimals)

type account struct {
	seq    int64
	native decimal.Decimal
	lines  map[string]*trustline // keyed by Asset.String()
}

type trustline struct {
	asset   domain.Asset
	balance decimal.Decimal
	limit   decimal.Decimal
}

func (a *account) clone() *account {
	c := &account{seq: a.seq, native: a.native, lines: make(map[string]*trustline, len(a.lines))}
	for k, l := range a.lines {
		cp := *l
		c.lines[k] = &cp
	}
	return c
}

// Ledger is an in-memory domain.Ledger.
type Ledger struct {
	mu         sync.Mutex
	passphrase string
	accounts   map[string]*account
	nextSeq    int64
	committed  map[string]domain.SignedTransaction
	submits    int
	now        func() time.Time
	genesis    *trustline // template line for auto-created accounts
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now, for validity-window tests.
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// WithGenesis makes every well-formed address exist on first use, funded with
// FundAmount and holding grant of asset. Offline demos use it since each CLI
// run starts from an empty ledger.
func WithGenesis(asset domain.Asset, grant string) Option {
	return func(l *Ledger) {
		l.genesis = &trustline{asset: asset, balance: decimal.RequireFromString(grant), limit: amount.Max}
	}
}

// New returns an empty ledger identified by passphrase.
func New(passphrase string, opts ...Option) *Ledger {
	l := &Ledger{
		passphrase: passphrase,
		accounts:   make(map[string]*account),
		nextSeq:    1 << 32,
		committed:  make(map[string]domain.SignedTransaction),
		now:        time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

var (
	_ domain.Ledger = (*Ledger)(nil)
	_ domain.Faucet = (*Ledger)(nil)
)

// Fund creates address with FundAmount of the native asset.
func (l *Ledger) Fund(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(domain.ErrUnavailable, err.Error())
	}
	if !keys.ValidAddress(address) {
		return eris.Wrapf(domain.ErrInvalidInput, "fund: bad address %q", address)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[address]; ok {
		return eris.Wrapf(domain.ErrAlreadyFunded, "fund %s", address)
	}
	l.accounts[address] = l.create()
	return nil
}

func (l *Ledger) create() *account {
	a := &account{
		seq:    l.nextSeq,
		native: decimal.RequireFromString(FundAmount),
		lines:  make(map[string]*trustline),
	}
	l.nextSeq += 1 << 32
	return a
}

// lookup returns address, creating it under WithGenesis.
func (l *Ledger) lookup(address string) (*account, bool) {
	if a, ok := l.accounts[address]; ok {
		return a, true
	}
	if l.genesis == nil || !keys.ValidAddress(address) {
		return nil, false
	}
	a := l.create()
	line := *l.genesis
	a.lines[line.asset.String()] = &line
	l.accounts[address] = a
	return a, true
}

// Issue credits amt of asset to address directly, standing in for an issuer
// payment. The trustline must already exist.
func (l *Ledger) Issue(address string, asset domain.Asset, amt string) error {
	d, err := amount.Parse(amt)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.lookup(address)
	if !ok {
		return domain.ErrAccountNotFound
	}
	line, ok := a.lines[asset.String()]
	if !ok {
		return fmt.Errorf("issue %s to %s: no trustline", asset.Code, address)
	}
	line.balance = line.balance.Add(d)
	return nil
}

// LoadAccount returns a snapshot of address.
func (l *Ledger) LoadAccount(ctx context.Context, address string) (domain.AccountState, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountState{}, eris.Wrap(domain.ErrUnavailable, err.Error())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.lookup(address)
	if !ok {
		return domain.AccountState{}, eris.Wrapf(domain.ErrAccountNotFound, "load account %s", address)
	}
	return snapshot(address, a), nil
}

func snapshot(address string, a *account) domain.AccountState {
	st := domain.AccountState{Address: address, Sequence: a.seq}
	st.Balances = append(st.Balances, domain.Balance{AssetCode: domain.NativeCode, Amount: a.native.StringFixed(amount.LedgerDecimals)})
	names := make([]string, 0, len(a.lines))
	for k := range a.lines {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		line := a.lines[k]
		st.Balances = append(st.Balances, domain.Balance{
			AssetCode:   line.asset.Code,
			AssetIssuer: line.asset.Issuer,
			Amount:      line.balance.StringFixed(amount.LedgerDecimals),
		})
	}
	return st
}

// Sign validates req and signs it with signer.
func (l *Ledger) Sign(req domain.TransactionRequest, signer domain.Signer) (domain.SignedTransaction, error) {
	kp, err := keys.Full(signer)
	if err != nil {
		return domain.SignedTransaction{}, err
	}
	if kp.Address() != req.Source.Address {
		return domain.SignedTransaction{}, eris.Wrap(domain.ErrInvalidCredentials, "signer is not the source account")
	}
	if err := req.Validate(); err != nil {
		return domain.SignedTransaction{}, eris.Wrap(domain.ErrInvalidInput, err.Error())
	}
	for i, op := range req.Operations {
		if err := validateOp(op); err != nil {
			return domain.SignedTransaction{}, eris.Wrapf(domain.ErrInvalidInput, "operation %d: %v", i+1, err)
		}
	}

	h := l.hash(req)
	sig, err := kp.Sign(h[:])
	if err != nil {
		return domain.SignedTransaction{}, eris.Wrap(err, "sign")
	}
	return domain.SignedTransaction{
		Hash:     hex.EncodeToString(h[:]),
		Envelope: base64.StdEncoding.EncodeToString(sig),
		Expires:  l.now().Add(req.Timeout),
		Request:  req,
	}, nil
}

func validateOp(op domain.Operation) error {
	switch o := op.(type) {
	case domain.PaymentOp:
		if !keys.ValidAddress(o.Destination) {
			return fmt.Errorf("invalid destination %q", o.Destination)
		}
		return amount.Validate(o.Amount, amount.LedgerDecimals)
	case domain.ChangeTrustOp:
		if !keys.ValidAddress(o.Asset.Issuer) {
			return fmt.Errorf("invalid issuer %q", o.Asset.Issuer)
		}
		return amount.Validate(o.Limit, amount.LedgerDecimals)
	default:
		return fmt.Errorf("unsupported operation %T", op)
	}
}

// hash binds the network passphrase, source, next sequence, fee, memo and
// operations.
func (l *Ledger) hash(req domain.TransactionRequest) [32]byte {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	h.Write([]byte(l.passphrase))
	h.Write([]byte(req.Source.Address))
	binary.BigEndian.PutUint64(n[:], uint64(req.Source.Sequence+1))
	h.Write(n[:])
	binary.BigEndian.PutUint64(n[:], uint64(req.BaseFee))
	h.Write(n[:])
	if req.Memo != nil {
		h.Write(req.Memo[:])
	}
	for _, op := range req.Operations {
		switch o := op.(type) {
		case domain.PaymentOp:
			fmt.Fprintf(h, "pay|%s|%s|%s;", o.Destination, o.Asset, o.Amount)
		case domain.ChangeTrustOp:
			fmt.Fprintf(h, "trust|%s|%s;", o.Asset, o.Limit)
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Submit applies tx atomically and returns its hash as the transaction id.
func (l *Ledger) Submit(ctx context.Context, tx domain.SignedTransaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(domain.ErrUnavailable, err.Error())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submits++

	req := tx.Request
	if h := l.hash(req); hex.EncodeToString(h[:]) != tx.Hash || !verify(req.Source.Address, h[:], tx.Envelope) {
		return "", &domain.RejectionError{TransactionCode: "tx_bad_auth"}
	}
	src, ok := l.lookup(req.Source.Address)
	if !ok {
		return "", &domain.RejectionError{TransactionCode: "tx_no_source_account"}
	}
	if req.Source.Sequence != src.seq {
		return "", &domain.RejectionError{TransactionCode: "tx_bad_seq"}
	}
	if l.now().After(tx.Expires) {
		return "", &domain.RejectionError{TransactionCode: "tx_too_late"}
	}
	fee := stroop.Mul(decimal.NewFromInt(req.BaseFee * int64(len(req.Operations))))
	if src.native.LessThan(fee) {
		return "", &domain.RejectionError{TransactionCode: "tx_insufficient_fee"}
	}

	// The fee and sequence number are consumed even if the operations fail.
	src.seq++
	src.native = src.native.Sub(fee)

	work := map[string]*account{req.Source.Address: src.clone()}
	codes := make([]string, len(req.Operations))
	failed := false
	for i, op := range req.Operations {
		codes[i] = l.apply(work, req.Source.Address, op)
		if codes[i] != "op_success" {
			failed = true
		}
	}
	if failed {
		return "", &domain.RejectionError{TransactionCode: "tx_failed", OperationCodes: codes}
	}
	for addr, a := range work {
		l.accounts[addr] = a
	}
	l.committed[tx.Hash] = tx
	return tx.Hash, nil
}

func (l *Ledger) apply(work map[string]*account, source string, op domain.Operation) string {
	get := func(addr string) (*account, bool) {
		if a, ok := work[addr]; ok {
			return a, true
		}
		a, ok := l.lookup(addr)
		if !ok {
			return nil, false
		}
		work[addr] = a.clone()
		return work[addr], true
	}
	src, _ := get(source)

	switch o := op.(type) {
	case domain.ChangeTrustOp:
		limit := decimal.RequireFromString(o.Limit)
		key := o.Asset.String()
		if line, ok := src.lines[key]; ok {
			if line.balance.GreaterThan(limit) {
				return "op_invalid_limit"
			}
			line.limit = limit
			return "op_success"
		}
		src.lines[key] = &trustline{asset: o.Asset, limit: limit}
		return "op_success"

	case domain.PaymentOp:
		amt := decimal.RequireFromString(o.Amount)
		dst, ok := get(o.Destination)
		if !ok {
			return "op_no_destination"
		}
		key := o.Asset.String()
		if source != o.Asset.Issuer {
			line, ok := src.lines[key]
			if !ok {
				return "op_src_no_trust"
			}
			if line.balance.LessThan(amt) {
				return "op_underfunded"
			}
			line.balance = line.balance.Sub(amt)
		}
		if o.Destination == o.Asset.Issuer {
			return "op_success"
		}
		line, ok := dst.lines[key]
		if !ok {
			return "op_no_trust"
		}
		if line.balance.Add(amt).GreaterThan(line.limit) {
			return "op_line_full"
		}
		line.balance = line.balance.Add(amt)
		return "op_success"
	}
	return "op_not_supported"
}

func verify(address string, msg []byte, envelope string) bool {
	sig, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return false
	}
	kp, err := keypair.ParseAddress(address)
	if err != nil {
		return false
	}
	return kp.Verify(msg, sig) == nil
}

// Submissions counts Submit calls, including rejected ones.
func (l *Ledger) Submissions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submits
}

// Transaction returns a committed transaction by id.
func (l *Ledger) Transaction(id string) (domain.SignedTransaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, ok := l.committed[id]
	return tx, ok
}
