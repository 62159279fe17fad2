package domain

import "zarc/internal/util/memzero"

// Signer carries the secret seed authorising transactions for Address.
//
// The seed lives only for the duration of one call. String and GoString print
// the address so a Signer can be passed to loggers and %v safely.
type Signer struct {
	Address string
	seed    []byte
}

// NewSigner copies seed into a new Signer.
func NewSigner(address string, seed []byte) Signer {
	s := make([]byte, len(seed))
	copy(s, seed)
	return Signer{Address: address, seed: s}
}

// Seed returns the secret seed. Callers must not retain it.
func (s Signer) Seed() []byte { return s.seed }

// Empty reports whether the signer holds no key material.
func (s Signer) Empty() bool { return len(s.seed) == 0 }

// Wipe zeroes the seed. Copies of s share the same backing array.
func (s Signer) Wipe() { memzero.Zero(s.seed) }

func (s Signer) String() string { return "signer(" + s.Address + ")" }

func (s Signer) GoString() string { return s.String() }
