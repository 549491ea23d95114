package vwap

import (
	"time"

	"github.com/shopspring/decimal"

	"vwaptrack/internal/models"
)

// DayRow is one daily fill enriched with the running aggregates carried
// left to right across the series.
type DayRow struct {
	Date           time.Time       `json:"date"`
	FilledQty      decimal.Decimal `json:"filled_qty"`
	FilledAvgPrice decimal.Decimal `json:"filled_avg_price"`
	DayVWAP        decimal.Decimal `json:"day_vwap"`

	CumQty      decimal.Decimal `json:"cum_qty"`
	CumNotional decimal.Decimal `json:"cum_notional"`
	// BenchmarkVWAP is the simple arithmetic mean of the daily session
	// VWAPs up to and including this day. It is deliberately not
	// volume-weighted; every formula downstream uses this same mean.
	BenchmarkVWAP decimal.Decimal `json:"benchmark_vwap"`

	DailyPL        decimal.Decimal  `json:"daily_pl"`
	PerformanceBps *decimal.Decimal `json:"performance_bps"`
}

// BuildSeries walks the ordered fills once and emits one enriched row per
// day. Fills must be in ascending date order with no duplicate dates; an
// empty input yields an empty series.
//
// Every stored record advances the benchmark's day count, including a
// zero-quantity day: a recorded day is a traded day for averaging purposes.
func BuildSeries(side Side, fills []models.DailyFill) []DayRow {
	rows := make([]DayRow, 0, len(fills))
	cumQty := decimal.Zero
	cumNotional := decimal.Zero
	vwapSum := decimal.Zero

	for i, f := range fills {
		vwapSum = vwapSum.Add(f.DayVWAP)
		benchmark := vwapSum.Div(decimal.NewFromInt(int64(i + 1)))
		cumQty = cumQty.Add(f.FilledQty)
		cumNotional = cumNotional.Add(f.FilledQty.Mul(f.FilledAvgPrice))

		dailyPL := side.Sign().Mul(benchmark.Sub(f.FilledAvgPrice)).Mul(f.FilledQty)

		row := DayRow{
			Date:           f.Date,
			FilledQty:      f.FilledQty,
			FilledAvgPrice: f.FilledAvgPrice,
			DayVWAP:        f.DayVWAP,
			CumQty:         cumQty,
			CumNotional:    cumNotional,
			BenchmarkVWAP:  benchmark,
			DailyPL:        dailyPL,
		}
		if denom := benchmark.Mul(cumQty); !denom.IsZero() {
			bps := dailyPL.Div(denom).Mul(tenK)
			row.PerformanceBps = &bps
		}
		rows = append(rows, row)
	}
	return rows
}
