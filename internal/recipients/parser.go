package recipients

import (
	"fmt"
	"strings"

	"zarc/internal/amount"
	"zarc/internal/domain"
	"zarc/internal/keys"
)

// ErrorKind names the way a recipient line was rejected.
type ErrorKind int

const (
	MalformedLine ErrorKind = iota + 1
	InvalidAmount
	InvalidAddress
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedLine:
		return "malformed line"
	case InvalidAmount:
		return "invalid amount"
	case InvalidAddress:
		return "invalid address"
	default:
		return "parse error"
	}
}

// ParseError reports the first bad line in a recipient list.
type ParseError struct {
	Kind ErrorKind
	Line int    // 1-based, counting blank lines
	Raw  string // the trimmed line
	Err  error  // underlying amount error, if any
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s %q", e.Line, e.Kind, e.Raw)
	switch {
	case e.Kind == MalformedLine:
		msg += ": expected <address>,<amount>"
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrInvalidInput}
	}
	return []error{domain.ErrInvalidInput, e.Err}
}

// Parse turns raw text into a batch, preserving line order. Empty or blank
// input yields an empty batch and no error.
func Parse(raw string) (domain.RecipientBatch, error) {
	return parse(raw, false)
}

// ParseStrict is Parse plus an address checksum check on every destination.
func ParseStrict(raw string) (domain.RecipientBatch, error) {
	return parse(raw, true)
}

func parse(raw string, strict bool) (domain.RecipientBatch, error) {
	batch := domain.RecipientBatch{}
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := i + 1

		dest, amt, ok := strings.Cut(line, ",")
		dest, amt = strings.TrimSpace(dest), strings.TrimSpace(amt)
		if !ok || dest == "" || amt == "" {
			return nil, &ParseError{Kind: MalformedLine, Line: n, Raw: line}
		}
		if _, err := amount.Parse(amt); err != nil {
			return nil, &ParseError{Kind: InvalidAmount, Line: n, Raw: line, Err: err}
		}
		if strict && !keys.ValidAddress(dest) {
			return nil, &ParseError{Kind: InvalidAddress, Line: n, Raw: line}
		}
		batch = append(batch, domain.PaymentInstruction{Destination: dest, Amount: amt, Line: n})
	}
	return batch, nil
}
