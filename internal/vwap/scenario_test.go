package vwap

import (
	"testing"

	"github.com/shopspring/decimal"

	"vwaptrack/internal/models"
)

func TestProjectScenarios_NoHistoryFlatPrice(t *testing.T) {
	scenarios, err := ProjectScenarios(SideSell, nil, ScenarioInput{
		Price:   decimal.NewFromInt(100),
		Shares:  decimal.NewFromInt(1000),
		MaxDays: 2,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("scenarios=%d want=2", len(scenarios))
	}
	two := scenarios[1]
	if two.SharesPerDay.Cmp(decimal.NewFromInt(500)) != 0 {
		t.Fatalf("shares/day=%s want=500", two.SharesPerDay)
	}
	if two.FinalBenchmark.Cmp(decimal.NewFromInt(100)) != 0 {
		t.Fatalf("benchmark=%s want=100", two.FinalBenchmark)
	}
	// Everything fills at the benchmark price: zero P&L and zero deviation.
	if !two.FinalPL.IsZero() {
		t.Fatalf("final pl=%s want=0", two.FinalPL)
	}
	if two.FinalPLBps == nil || !two.FinalPLBps.IsZero() {
		t.Fatalf("final bps=%v want=0", two.FinalPLBps)
	}
	if two.PriceVsBenchmarkPct == nil || !two.PriceVsBenchmarkPct.IsZero() {
		t.Fatalf("price vs benchmark=%v want=0", two.PriceVsBenchmarkPct)
	}
}

func TestProjectScenarios_SharesPerDayCeiling(t *testing.T) {
	scenarios, err := ProjectScenarios(SideBuy, nil, ScenarioInput{
		Price:   decimal.NewFromInt(50),
		Shares:  decimal.NewFromInt(1000),
		MaxDays: 3,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// ceil(1000/3) = 334; days fill 334, 334, 332.
	three := scenarios[2]
	if three.SharesPerDay.Cmp(decimal.NewFromInt(334)) != 0 {
		t.Fatalf("shares/day=%s want=334", three.SharesPerDay)
	}
}

func TestProjectScenarios_BlendsHistoryIntoBenchmark(t *testing.T) {
	history := BuildSeries(SideSell, []models.DailyFill{
		mkFill(t, 1, "100", "100", "90"),
	})
	scenarios, err := ProjectScenarios(SideSell, history, ScenarioInput{
		Price:   decimal.NewFromInt(110),
		Shares:  decimal.NewFromInt(100),
		MaxDays: 1,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	sc := scenarios[0]
	// mean(90, 110) = 100.
	if sc.FinalBenchmark.Cmp(decimal.NewFromInt(100)) != 0 {
		t.Fatalf("benchmark=%s want=100", sc.FinalBenchmark)
	}
	// cum notional 100*100 + 100*110 = 21000; 21000 - 100*200 = 1000.
	if sc.FinalPL.Cmp(decimal.NewFromInt(1000)) != 0 {
		t.Fatalf("final pl=%s want=1000", sc.FinalPL)
	}
	// 1000 / (100*200) * 10000 = 500 bps.
	if sc.FinalPLBps == nil || sc.FinalPLBps.Cmp(decimal.NewFromInt(500)) != 0 {
		t.Fatalf("final bps=%v want=500", sc.FinalPLBps)
	}
	// 110/100 - 1 = +10%.
	if sc.PriceVsBenchmarkPct == nil || sc.PriceVsBenchmarkPct.Cmp(decimal.NewFromInt(10)) != 0 {
		t.Fatalf("price vs benchmark=%v want=10", sc.PriceVsBenchmarkPct)
	}
}

func TestProjectScenarios_StopsWhenSharesExhausted(t *testing.T) {
	// 10 shares over up to 20 days: per-day is 1 from d=10 on, and the
	// simulation must stop adding days once nothing is left to fill.
	scenarios, err := ProjectScenarios(SideSell, nil, ScenarioInput{
		Price:   decimal.NewFromInt(100),
		Shares:  decimal.NewFromInt(10),
		MaxDays: 20,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	last := scenarios[19]
	if last.FinalBenchmark.Cmp(decimal.NewFromInt(100)) != 0 {
		t.Fatalf("benchmark=%s want=100", last.FinalBenchmark)
	}
	if !last.FinalPL.IsZero() {
		t.Fatalf("final pl=%s want=0", last.FinalPL)
	}
}

func TestProjectScenarios_SideSymmetry(t *testing.T) {
	history := BuildSeries(SideSell, []models.DailyFill{
		mkFill(t, 1, "100", "100", "90"),
	})
	in := ScenarioInput{Price: decimal.NewFromInt(110), Shares: decimal.NewFromInt(100), MaxDays: 1}
	sell, err := ProjectScenarios(SideSell, history, in)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	buy, err := ProjectScenarios(SideBuy, history, in)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if buy[0].FinalPL.Cmp(sell[0].FinalPL.Neg()) != 0 {
		t.Fatalf("buy=%s sell=%s want mirrored", buy[0].FinalPL, sell[0].FinalPL)
	}
}

func TestProjectScenarios_InvalidCallShape(t *testing.T) {
	valid := ScenarioInput{Price: decimal.NewFromInt(100), Shares: decimal.NewFromInt(10), MaxDays: 5}

	in := valid
	in.MaxDays = 0
	if _, err := ProjectScenarios(SideSell, nil, in); err == nil {
		t.Fatalf("want error for non-positive max days")
	}
	in = valid
	in.Price = decimal.Zero
	if _, err := ProjectScenarios(SideSell, nil, in); err == nil {
		t.Fatalf("want error for non-positive price")
	}
	in = valid
	in.Shares = decimal.NewFromInt(-1)
	if _, err := ProjectScenarios(SideSell, nil, in); err == nil {
		t.Fatalf("want error for non-positive shares")
	}
}
