// Package amount validates decimal amount strings without converting them to
// floating point. Amounts travel through the wallet as the text the user typed;
// this package only decides whether that text is acceptable.
package amount

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// LedgerDecimals is the precision of ledger amounts (1 stroop = 0.0000001).
const LedgerDecimals int32 = 7

var (
	ErrNotDecimal  = errors.New("amount is not a plain decimal number")
	ErrNotPositive = errors.New("amount must be greater than zero")
	ErrPrecision   = errors.New("amount has too many decimal places")
	ErrRange       = errors.New("amount exceeds the ledger maximum")
)

// Max is the largest amount a single ledger operation can move (int64 stroops).
var Max = decimal.RequireFromString("922337203685.4775807")

var plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Parse checks that s is a positive, finite, plain decimal and returns its value.
// Signs, exponents, separators and NaN/Inf spellings are all rejected.
func Parse(s string) (decimal.Decimal, error) {
	if !plainDecimal.MatchString(s) {
		return decimal.Zero, ErrNotDecimal
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotDecimal
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	return d, nil
}

// Places returns the number of fractional digits written in s.
func Places(s string) int32 {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return int32(len(s) - i - 1)
}

// Validate applies Parse and then the precision and range limits. Trailing
// zeros count as written digits: "1.50000000" has eight places.
func Validate(s string, decimals int32) error {
	d, err := Parse(s)
	if err != nil {
		return err
	}
	if Places(s) > decimals {
		return ErrPrecision
	}
	if d.GreaterThan(Max) {
		return ErrRange
	}
	return nil
}

// Sum adds validated amounts exactly.
func Sum(amounts ...string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range amounts {
		d, err := Parse(a)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(d)
	}
	return total, nil
}
