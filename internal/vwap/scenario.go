package vwap

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScenarioInput is the user-supplied hypothesis: a fixed future fill price,
// a total share count to place, and the largest day count to project.
type ScenarioInput struct {
	Price   decimal.Decimal `json:"price"`
	Shares  decimal.Decimal `json:"shares"`
	MaxDays int             `json:"max_days"`
}

// FutureScenario is the projected outcome of completing Shares over Days
// evenly paced future days.
type FutureScenario struct {
	Days                int              `json:"days"`
	SharesPerDay        decimal.Decimal  `json:"shares_per_day"`
	FinalBenchmark      decimal.Decimal  `json:"final_benchmark"`
	FinalPL             decimal.Decimal  `json:"final_pl"`
	FinalPLBps          *decimal.Decimal `json:"final_pl_bps"`
	PriceVsBenchmarkPct *decimal.Decimal `json:"price_vs_benchmark_pct"`
}

// ProjectScenarios simulates, for every candidate day count 1..MaxDays,
// distributing the hypothetical shares across that many future days at the
// fixed price. Each simulated day contributes the price to the benchmark
// mean under the same one-day-one-sample rule as the historical series.
// The history rows supply the starting cumulative totals and the historical
// VWAP samples.
//
// A non-positive price, share count or day bound is an invalid call shape,
// not a business degradation, and returns an error.
func ProjectScenarios(side Side, history []DayRow, in ScenarioInput) ([]FutureScenario, error) {
	if in.MaxDays <= 0 {
		return nil, fmt.Errorf("max days must be positive, got %d", in.MaxDays)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("scenario price must be positive, got %s", in.Price)
	}
	if !in.Shares.IsPositive() {
		return nil, fmt.Errorf("scenario shares must be positive, got %s", in.Shares)
	}

	startQty := decimal.Zero
	startNotional := decimal.Zero
	histSum := decimal.Zero
	if n := len(history); n > 0 {
		startQty = history[n-1].CumQty
		startNotional = history[n-1].CumNotional
	}
	for _, r := range history {
		histSum = histSum.Add(r.DayVWAP)
	}

	out := make([]FutureScenario, 0, in.MaxDays)
	for d := 1; d <= in.MaxDays; d++ {
		perDay := in.Shares.Div(decimal.NewFromInt(int64(d))).Ceil()

		cumQty := startQty
		cumNotional := startNotional
		vwapSum := histSum
		count := len(history)
		remaining := in.Shares

		for i := 0; i < d; i++ {
			add := decimal.Min(perDay, remaining)
			if !add.IsPositive() {
				break
			}
			cumQty = cumQty.Add(add)
			cumNotional = cumNotional.Add(add.Mul(in.Price))
			vwapSum = vwapSum.Add(in.Price)
			count++
			remaining = remaining.Sub(add)
		}

		finalBenchmark := in.Price
		if count > 0 {
			finalBenchmark = vwapSum.Div(decimal.NewFromInt(int64(count)))
		}
		finalPL := side.Sign().Mul(finalBenchmark.Mul(cumQty).Sub(cumNotional))

		sc := FutureScenario{
			Days:           d,
			SharesPerDay:   perDay,
			FinalBenchmark: finalBenchmark,
			FinalPL:        finalPL,
		}
		if denom := finalBenchmark.Mul(cumQty); !denom.IsZero() {
			bps := finalPL.Div(denom).Mul(tenK)
			sc.FinalPLBps = &bps
		}
		if !finalBenchmark.IsZero() {
			pct := in.Price.Div(finalBenchmark).Sub(one).Mul(hundred)
			sc.PriceVsBenchmarkPct = &pct
		}
		out = append(out, sc)
	}
	return out, nil
}
