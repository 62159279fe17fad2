package domain

import "context"

// Ledger is how we talk to the payment network.
type Ledger interface {
	// LoadAccount returns ErrAccountNotFound for unfunded or unknown accounts.
	LoadAccount(ctx context.Context, address string) (AccountState, error)
	// Sign builds and signs req locally. It never touches the network.
	Sign(req TransactionRequest, signer Signer) (SignedTransaction, error)
	// Submit sends tx once and returns the transaction id.
	Submit(ctx context.Context, tx SignedTransaction) (string, error)
}

// Faucet funds new accounts on a test network.
type Faucet interface {
	Fund(ctx context.Context, address string) error
}
