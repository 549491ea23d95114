package vwap

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side of the program's target order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	tenK    = decimal.NewFromInt(10000)
)

// Sign collapses every side-dependent sign flip into one factor. P&L and
// deviation formulas are written once against (benchmark - price) and
// multiplied by it, so positive always means favorable execution for the
// side: a buyer profits below benchmark, a seller above it.
func (s Side) Sign() decimal.Decimal {
	if s == SideSell {
		return one.Neg()
	}
	return one
}

func ParseSide(raw string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(raw))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("invalid side: %q", raw)
}
