package batch

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"zarc/internal/domain"
)

// Digest is a BLAKE2b-256 hash of the asset and the ordered instructions.
// Reordering, adding or editing any line changes it, so the memo on the
// ledger can be matched back to the exact list that was paid.
func Digest(batch domain.RecipientBatch, asset domain.Asset) [32]byte {
	var b strings.Builder
	b.WriteString(asset.String())
	b.WriteByte('\n')
	for _, in := range batch {
		b.WriteString(in.Destination)
		b.WriteByte(',')
		b.WriteString(in.Amount)
		b.WriteByte('\n')
	}
	return blake2b.Sum256([]byte(b.String()))
}

// DigestHex is Digest hex-encoded.
func DigestHex(batch domain.RecipientBatch, asset domain.Asset) string {
	d := Digest(batch, asset)
	return hex.EncodeToString(d[:])
}
