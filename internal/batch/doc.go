// Package batch assembles and submits single-signer batch payments.
//
// A batch is one ledger transaction carrying one payment operation per
// recipient, in input order. The ledger applies it all-or-nothing: if any
// operation fails, none of the payments happen.
//
// # Flow
//
// Submitter.Submit drives one submission through
//
//	Idle -> LoadingAccount -> Assembling -> Signing -> Submitting -> Succeeded | Failed
//
// Input problems (missing secret, empty or malformed recipient list, compliance
// blocks) are reported from Idle before any network call. The account load and
// the submission are the only blocking calls. Submission happens at most once
// per call and is never retried here: payments are not idempotent, so retrying
// is left to the caller after checking the ledger.
//
// # Limitations
//
// Concurrent submissions for the same signer are not coordinated. Both load
// the same sequence number and the ledger rejects the second with tx_bad_seq,
// which surfaces as a validation failure.
package batch
