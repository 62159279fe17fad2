// Package faucet provides an HTTP implementation of domain.Faucet for test
// networks.
//
// The faucet creates and funds an account on request. This package speaks the
// Friendbot protocol: a GET to the faucet URL with the address in the addr
// query parameter.
//
// Requests accept a context for cancellation and deadlines. An account that
// already exists is reported as domain.ErrAlreadyFunded. Other non-2xx statuses
// and transport failures are domain.ErrUnavailable with the URL and status text
// to aid diagnostics.
package faucet
