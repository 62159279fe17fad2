package keys

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"

	"zarc/internal/domain"
)

// FromSecret parses secret and returns the signer it controls.
func FromSecret(secret string) (domain.Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return domain.Signer{}, domain.ErrMissingCredentials
	}
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		// The parse error is dropped on purpose: it may quote its input.
		return domain.Signer{}, eris.Wrap(domain.ErrInvalidCredentials, "secret seed is not a valid S... key")
	}
	return domain.NewSigner(kp.Address(), []byte(kp.Seed())), nil
}

// Generate returns a new random signer.
func Generate() (domain.Signer, error) {
	kp, err := keypair.Random()
	if err != nil {
		return domain.Signer{}, eris.Wrap(err, "generate keypair")
	}
	return domain.NewSigner(kp.Address(), []byte(kp.Seed())), nil
}

// Full converts s back into an SDK keypair for signing.
func Full(s domain.Signer) (*keypair.Full, error) {
	if s.Empty() {
		return nil, domain.ErrMissingCredentials
	}
	kp, err := keypair.ParseFull(string(s.Seed()))
	if err != nil {
		return nil, eris.Wrap(domain.ErrInvalidCredentials, "signer seed")
	}
	if kp.Address() != s.Address {
		return nil, eris.Wrap(domain.ErrInvalidCredentials, "signer seed does not match its address")
	}
	return kp, nil
}

// ValidAddress reports whether addr is a well-formed account address.
func ValidAddress(addr string) bool {
	return strkey.IsValidEd25519PublicKey(addr)
}

// Short abbreviates addr as GABC…WXYZ.
func Short(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}
