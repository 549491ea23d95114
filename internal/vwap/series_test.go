package vwap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vwaptrack/internal/models"
)

func mkFill(t *testing.T, day int, qty, avgPrice, dayVWAP string) models.DailyFill {
	t.Helper()
	return models.DailyFill{
		Date:           time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		FilledQty:      decimal.RequireFromString(qty),
		FilledAvgPrice: decimal.RequireFromString(avgPrice),
		DayVWAP:        decimal.RequireFromString(dayVWAP),
	}
}

func TestBuildSeries_Empty(t *testing.T) {
	rows := BuildSeries(SideSell, nil)
	if len(rows) != 0 {
		t.Fatalf("rows=%d want=0", len(rows))
	}
}

func TestBuildSeries_BenchmarkIsRunningMean(t *testing.T) {
	fills := []models.DailyFill{
		mkFill(t, 1, "100", "101", "100"),
		mkFill(t, 2, "200", "103", "104"),
		mkFill(t, 3, "150", "99", "99"),
	}
	rows := BuildSeries(SideSell, fills)
	if len(rows) != 3 {
		t.Fatalf("rows=%d want=3", len(rows))
	}
	sum := decimal.Zero
	for i, r := range rows {
		sum = sum.Add(fills[i].DayVWAP)
		want := sum.Div(decimal.NewFromInt(int64(i + 1)))
		if r.BenchmarkVWAP.Cmp(want) != 0 {
			t.Fatalf("day %d benchmark=%s want=%s", i+1, r.BenchmarkVWAP, want)
		}
	}
}

func TestBuildSeries_CumulativesNonDecreasing(t *testing.T) {
	fills := []models.DailyFill{
		mkFill(t, 1, "100", "101", "100"),
		mkFill(t, 2, "0", "0", "104"),
		mkFill(t, 3, "150", "99", "99"),
	}
	rows := BuildSeries(SideBuy, fills)
	for i := 1; i < len(rows); i++ {
		if rows[i].CumQty.LessThan(rows[i-1].CumQty) {
			t.Fatalf("cum qty decreased at day %d", i+1)
		}
		if rows[i].CumNotional.LessThan(rows[i-1].CumNotional) {
			t.Fatalf("cum notional decreased at day %d", i+1)
		}
	}
	// Day 1 qty 100: cum qty carried through the zero-quantity day.
	if rows[1].CumQty.Cmp(decimal.NewFromInt(100)) != 0 {
		t.Fatalf("day 2 cum qty=%s want=100", rows[1].CumQty)
	}
}

func TestBuildSeries_ZeroQtyDayStillCountsForBenchmark(t *testing.T) {
	fills := []models.DailyFill{
		mkFill(t, 1, "100", "100", "100"),
		mkFill(t, 2, "0", "0", "110"),
	}
	rows := BuildSeries(SideSell, fills)
	want := decimal.RequireFromString("105")
	if rows[1].BenchmarkVWAP.Cmp(want) != 0 {
		t.Fatalf("benchmark=%s want=%s", rows[1].BenchmarkVWAP, want)
	}
}

func TestBuildSeries_ZeroDenominatorYieldsNilBps(t *testing.T) {
	// Zero filled quantity on the only day: cum qty is zero.
	rows := BuildSeries(SideSell, []models.DailyFill{mkFill(t, 1, "0", "0", "100")})
	if rows[0].PerformanceBps != nil {
		t.Fatalf("bps=%s want=nil", rows[0].PerformanceBps)
	}
	// Zero session VWAPs: benchmark is zero even with quantity filled.
	rows = BuildSeries(SideSell, []models.DailyFill{mkFill(t, 1, "100", "100", "0")})
	if rows[0].PerformanceBps != nil {
		t.Fatalf("bps=%s want=nil", rows[0].PerformanceBps)
	}
}

func TestBuildSeries_SellPLAndBps(t *testing.T) {
	// Sold 100 at 102 against a 100 benchmark: +200 P&L, 200 bps.
	rows := BuildSeries(SideSell, []models.DailyFill{mkFill(t, 1, "100", "102", "100")})
	if rows[0].DailyPL.Cmp(decimal.NewFromInt(200)) != 0 {
		t.Fatalf("daily pl=%s want=200", rows[0].DailyPL)
	}
	if rows[0].PerformanceBps == nil || rows[0].PerformanceBps.Cmp(decimal.NewFromInt(200)) != 0 {
		t.Fatalf("bps=%v want=200", rows[0].PerformanceBps)
	}
}

func TestBuildSeries_SideSymmetry(t *testing.T) {
	fills := []models.DailyFill{mkFill(t, 1, "100", "102", "100")}
	buy := BuildSeries(SideBuy, fills)
	sell := BuildSeries(SideSell, fills)
	if buy[0].DailyPL.Cmp(sell[0].DailyPL.Neg()) != 0 {
		t.Fatalf("buy pl=%s sell pl=%s want mirrored", buy[0].DailyPL, sell[0].DailyPL)
	}
}
