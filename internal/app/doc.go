// Package app wires application dependencies for the CLI.
//
// It loads Config from the environment (and optionally a key=value file),
// builds the ledger client, faucet, batch submitter and wallet service from
// it, and exposes them via the Wire struct for commands to use.
package app
