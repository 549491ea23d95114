package vwap

import "github.com/shopspring/decimal"

type QuoteStatus string

const (
	QuoteOK      QuoteStatus = "ok"
	QuoteLoading QuoteStatus = "loading"
	QuoteError   QuoteStatus = "error"
)

// LiveQuote is the caller-supplied market price. The status keeps "not
// fetched yet" and "fetch failed" distinct from an actual zero price; the
// engine never substitutes a guessed value.
type LiveQuote struct {
	Price  decimal.Decimal
	Status QuoteStatus
}
