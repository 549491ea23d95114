package vwap

import (
	"testing"

	"github.com/shopspring/decimal"

	"vwaptrack/internal/models"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(v int) *int { return &v }

func okQuote(price string) LiveQuote {
	return LiveQuote{Price: decimal.RequireFromString(price), Status: QuoteOK}
}

func TestComputeProgress_QtyTargetPacingBreakdown(t *testing.T) {
	m := ComputeProgress(ProgressInput{
		Program: models.Program{
			Side:             string(SideSell),
			TargetQty:        decPtr("10000"),
			EarliestDayLimit: intPtr(5),
			BusinessDayLimit: intPtr(10),
		},
		TradedDays:  0,
		CumQty:      decimal.Zero,
		CumNotional: decimal.Zero,
	})
	if m.Remaining.State != TargetResolved {
		t.Fatalf("state=%s want=resolved", m.Remaining.State)
	}
	if m.Remaining.Shares.Cmp(decimal.NewFromInt(10000)) != 0 {
		t.Fatalf("remaining=%s want=10000", m.Remaining.Shares)
	}
	if m.DaysUntilEarliest == nil || *m.DaysUntilEarliest != 5 {
		t.Fatalf("days until earliest=%v want=5", m.DaysUntilEarliest)
	}
	if m.RemainingBusinessDays == nil || *m.RemainingBusinessDays != 10 {
		t.Fatalf("remaining business days=%v want=10", m.RemainingBusinessDays)
	}
	if len(m.Breakdown) != 6 {
		t.Fatalf("breakdown rows=%d want=6", len(m.Breakdown))
	}
	if m.Breakdown[0].Days != 5 || m.Breakdown[0].SharesPerDay.Cmp(decimal.NewFromInt(2000)) != 0 {
		t.Fatalf("first row=(%d,%s) want=(5,2000)", m.Breakdown[0].Days, m.Breakdown[0].SharesPerDay)
	}
	if m.Breakdown[5].Days != 10 || m.Breakdown[5].SharesPerDay.Cmp(decimal.NewFromInt(1000)) != 0 {
		t.Fatalf("last row=(%d,%s) want=(10,1000)", m.Breakdown[5].Days, m.Breakdown[5].SharesPerDay)
	}
	for i := 1; i < len(m.Breakdown); i++ {
		if m.Breakdown[i].SharesPerDay.GreaterThan(m.Breakdown[i-1].SharesPerDay) {
			t.Fatalf("breakdown pace increased at row %d", i)
		}
	}
	if m.MaxPace != "2000 shares/day" {
		t.Fatalf("max pace=%q want=2000 shares/day", m.MaxPace)
	}
	if m.MinPace != "1000 shares/day" {
		t.Fatalf("min pace=%q want=1000 shares/day", m.MinPace)
	}
}

func TestComputeProgress_QtyTargetClampedToZero(t *testing.T) {
	m := ComputeProgress(ProgressInput{
		Program:    models.Program{Side: string(SideBuy), TargetQty: decPtr("100")},
		TradedDays: 3,
		CumQty:     decimal.NewFromInt(150),
	})
	if m.Remaining.State != TargetResolved || !m.Remaining.Shares.IsZero() {
		t.Fatalf("remaining=%+v want resolved zero", m.Remaining)
	}
	if m.MaxPace != "complete" || m.MinPace != "complete" {
		t.Fatalf("pace=(%q,%q) want complete", m.MaxPace, m.MinPace)
	}
}

func TestComputeProgress_NotionalTargetNeedsPrice(t *testing.T) {
	base := ProgressInput{
		Program:     models.Program{Side: string(SideSell), TargetNotional: decPtr("1000000")},
		TradedDays:  2,
		CumNotional: decimal.NewFromInt(400000),
	}

	base.Quote = LiveQuote{Status: QuoteLoading}
	m := ComputeProgress(base)
	if m.Remaining.State != TargetPending || m.Remaining.Reason != ReasonPriceLoading {
		t.Fatalf("remaining=%+v want pending/price loading", m.Remaining)
	}
	if m.MaxPace != ReasonPriceLoading {
		t.Fatalf("max pace=%q want=%q", m.MaxPace, ReasonPriceLoading)
	}

	base.Quote = LiveQuote{Status: QuoteError}
	m = ComputeProgress(base)
	if m.Remaining.State != TargetPending || m.Remaining.Reason != ReasonInvalidPrice {
		t.Fatalf("remaining=%+v want pending/invalid price", m.Remaining)
	}

	base.Quote = LiveQuote{Price: decimal.Zero, Status: QuoteOK}
	m = ComputeProgress(base)
	if m.Remaining.Reason != ReasonInvalidPrice {
		t.Fatalf("reason=%q want=%q", m.Remaining.Reason, ReasonInvalidPrice)
	}

	base.Quote = okQuote("150")
	m = ComputeProgress(base)
	if m.Remaining.State != TargetResolved {
		t.Fatalf("state=%s want=resolved", m.Remaining.State)
	}
	want := decimal.NewFromInt(4000) // 600000 / 150
	if m.Remaining.Shares.Cmp(want) != 0 {
		t.Fatalf("remaining=%s want=%s", m.Remaining.Shares, want)
	}
}

func TestComputeProgress_NotionalDustRemainder(t *testing.T) {
	m := ComputeProgress(ProgressInput{
		Program:     models.Program{Side: string(SideBuy), TargetNotional: decPtr("1000050")},
		CumNotional: decimal.NewFromInt(1000000),
		Quote:       okQuote("100"),
	})
	if m.Remaining.State != TargetResolved || !m.Remaining.Shares.IsZero() {
		t.Fatalf("remaining=%+v want resolved zero", m.Remaining)
	}
	if m.Remaining.Reason != ReasonDustRemainder {
		t.Fatalf("reason=%q want=%q", m.Remaining.Reason, ReasonDustRemainder)
	}
	if m.MaxPace != ReasonDustRemainder {
		t.Fatalf("max pace=%q want dust reason", m.MaxPace)
	}
}

func TestComputeProgress_NoTarget(t *testing.T) {
	m := ComputeProgress(ProgressInput{
		Program: models.Program{Side: string(SideSell)},
	})
	if m.Remaining.State != TargetUnset || m.Remaining.Reason != ReasonNoTarget {
		t.Fatalf("remaining=%+v want unset/no target", m.Remaining)
	}

	// Fills exist: nothing left to do even without a target.
	m = ComputeProgress(ProgressInput{
		Program:    models.Program{Side: string(SideSell)},
		TradedDays: 4,
		CumQty:     decimal.NewFromInt(500),
	})
	if m.Remaining.State != TargetResolved || !m.Remaining.Shares.IsZero() {
		t.Fatalf("remaining=%+v want resolved zero", m.Remaining)
	}

	// An explicit zero target also means complete rather than unset.
	m = ComputeProgress(ProgressInput{
		Program: models.Program{Side: string(SideSell), TargetQty: decPtr("0")},
	})
	if m.Remaining.State != TargetResolved || !m.Remaining.Shares.IsZero() {
		t.Fatalf("remaining=%+v want resolved zero", m.Remaining)
	}
}

func TestComputeProgress_DeadlinePassed(t *testing.T) {
	m := ComputeProgress(ProgressInput{
		Program: models.Program{
			Side:             string(SideSell),
			TargetQty:        decPtr("1000"),
			EarliestDayLimit: intPtr(5),
			BusinessDayLimit: intPtr(7),
		},
		TradedDays: 8,
		CumQty:     decimal.NewFromInt(100),
	})
	if m.DaysUntilEarliest == nil || *m.DaysUntilEarliest != -3 {
		t.Fatalf("days until earliest=%v want=-3", m.DaysUntilEarliest)
	}
	if m.MaxPace != "deadline exceeded" {
		t.Fatalf("max pace=%q want=deadline exceeded", m.MaxPace)
	}
	if m.MinPace != "no remaining days" {
		t.Fatalf("min pace=%q want=no remaining days", m.MinPace)
	}
	if len(m.Breakdown) != 0 {
		t.Fatalf("breakdown rows=%d want=0", len(m.Breakdown))
	}
}

func TestComputeProgress_PaceRoundsToWholeShares(t *testing.T) {
	m := ComputeProgress(ProgressInput{
		Program: models.Program{
			Side:             string(SideBuy),
			TargetQty:        decPtr("10000"),
			EarliestDayLimit: intPtr(6),
			BusinessDayLimit: intPtr(6),
		},
	})
	// 10000/6 rounds to 1667.
	if m.MaxPace != "1667 shares/day" {
		t.Fatalf("max pace=%q want=1667 shares/day", m.MaxPace)
	}
}
