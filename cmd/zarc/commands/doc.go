// Package commands defines the zarc CLI and wires dependencies for subcommands.
//
// Commands
//
//   - create-wallet  Generate a keypair, fund it and trust the asset
//   - fund           Ask the test-network faucet to create an account
//   - trust          Open a trustline to the asset
//   - balance        Show an account's asset and native balances
//   - send           Pay one destination
//   - request        Print a payment request URI and QR code
//   - disburse       Pay every line of a recipient list in one transaction
//
// Secrets are read from --secret or ZARC_SECRET and never written anywhere.
//
// # Implementation
//
// The root command loads configuration, builds the logger and the dependency
// graph (ledger client, faucet, submitter, wallet service) before any
// subcommand runs. Flags override ZARC_* environment variables, which
// override the optional --config file.
package commands
