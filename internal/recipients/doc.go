// Package recipients parses pasted recipient lists into payment instructions.
//
// The accepted format is UTF-8 text with one instruction per line:
//
//	<address>,<amount>
//
// Leading and trailing whitespace is ignored on every line and around each
// field, blank lines are skipped, and only the first comma separates the
// fields. Amounts are kept as the text that was written; they are checked to
// be positive plain decimals but never converted to floating point.
//
// Parse checks addresses only for presence. ParseStrict also checks that each
// address is a well-formed account key so mistakes surface before anything is
// sent to the ledger.
package recipients
