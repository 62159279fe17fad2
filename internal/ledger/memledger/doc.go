// Package memledger is an in-memory ledger used for offline runs and tests.
//
// It keeps accounts, sequence numbers, trustlines and balances in a map and
// implements domain.Ledger and domain.Faucet.
//
// Behaviour
//
//   - Funding creates the account with a native balance, like the test
//     network faucet. Funding an existing account fails.
//   - Sign checks the seed against its address, validates destinations and
//     amounts, and signs a BLAKE2b hash of the request with the seed.
//   - Submit verifies the signature, the sequence number and the validity
//     window, then applies every operation on a copy of the affected state.
//     If any operation fails the copy is discarded and the transaction is
//     reported as tx_failed with one result code per operation; only the fee
//     and the sequence number are consumed, as on the real network.
//   - WithGenesis pre-populates every address on first use with a funded
//     account and a trustline balance, so one-shot CLI runs have something to
//     spend. Account-not-found never occurs in that mode.
//   - All state is held in memory and lost on process exit.
package memledger
