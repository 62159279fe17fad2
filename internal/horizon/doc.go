// Package horizon implements domain.Ledger against a Horizon server using the
// Stellar Go SDK.
//
// Supported operations:
//   - Loading an account's sequence number and balances.
//   - Building and signing payment and change-trust transactions locally.
//   - Submitting a signed envelope, exactly once.
//
// Every call takes the caller's context; it is attached to each HTTP request
// the SDK makes. Failures are mapped onto the domain taxonomy: 404 on account
// load is domain.ErrAccountNotFound, result codes from a 400 are a
// *domain.RejectionError, and transport errors, 5xx and submission timeouts are
// domain.ErrUnavailable. A submission timeout means the outcome is unknown.
package horizon
