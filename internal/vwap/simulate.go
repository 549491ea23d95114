package vwap

import "github.com/shopspring/decimal"

// SimulationResult holds the hypothetical same-day P&L and the performance
// fee it would accrue. Both are nil when the inputs were unusable.
type SimulationResult struct {
	DailyPL *decimal.Decimal `json:"daily_pl"`
	Fee     *decimal.Decimal `json:"fee"`
}

// SimulateDay computes today's hypothetical P&L for filling qty shares at
// price against the last known cumulative benchmark. lastBenchmark nil
// means no history exists, in which case the price itself is the benchmark
// and the P&L is zero by construction.
//
// The fee applies only to a positive P&L; a loss never produces a negative
// fee.
func SimulateDay(side Side, price, qty *decimal.Decimal, lastBenchmark *decimal.Decimal, perfFeePct *decimal.Decimal) SimulationResult {
	if price == nil || qty == nil || !price.IsPositive() || !qty.IsPositive() {
		return SimulationResult{}
	}

	benchmark := *price
	if lastBenchmark != nil {
		benchmark = *lastBenchmark
	}

	pl := side.Sign().Mul(benchmark.Sub(*price)).Mul(*qty)
	fee := decimal.Zero
	if pl.IsPositive() && perfFeePct != nil {
		fee = pl.Mul(*perfFeePct).Div(hundred)
	}
	return SimulationResult{DailyPL: &pl, Fee: &fee}
}
