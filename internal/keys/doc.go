// Package keys turns user-supplied secret seeds into domain.Signer values and
// validates ledger addresses.
//
// Contents
//
//   - FromSecret parses an S... strkey seed and derives its G... address
//   - Generate creates a fresh random keypair
//   - ValidAddress checks a G... address, including its checksum
//   - Short abbreviates an address for display
//
// # Notes
//
// Errors never echo the secret they were given. Callers should Wipe the
// returned Signer once the operation that needed it is done.
package keys
