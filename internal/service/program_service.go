package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
	"vwaptrack/internal/vwap"
)

// ProgramService loads a program with its ordered fills and cached quote and
// runs the engine over them. All computation is per request; nothing derived
// is cached or persisted here.
type ProgramService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// MaxQuoteAge degrades a cached quote to "error" once it is older than
	// this. Zero means quotes never go stale.
	MaxQuoteAge time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// DeviationResult is the live price vs adjusted benchmark comparison.
type DeviationResult struct {
	TradedDays        int              `json:"traded_days"`
	BenchmarkVWAP     *decimal.Decimal `json:"benchmark_vwap"`
	Price             *decimal.Decimal `json:"price"`
	QuoteStatus       vwap.QuoteStatus `json:"quote_status"`
	AdjustedBenchmark *decimal.Decimal `json:"adjusted_benchmark"`
	DeviationPct      *decimal.Decimal `json:"deviation_pct"`
}

func (s *ProgramService) load(ctx context.Context, programID uint64) (*models.Program, vwap.Side, []vwap.DayRow, error) {
	if s == nil || s.Repo == nil {
		return nil, "", nil, fmt.Errorf("program service not configured")
	}
	program, err := s.Repo.GetProgramByID(ctx, programID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("load program %d: %w", programID, err)
	}
	if program == nil {
		return nil, "", nil, nil
	}
	side, err := vwap.ParseSide(program.Side)
	if err != nil {
		return nil, "", nil, fmt.Errorf("program %d: %w", programID, err)
	}
	fills, err := s.Repo.ListFillsByProgramID(ctx, programID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("load fills for program %d: %w", programID, err)
	}
	return program, side, vwap.BuildSeries(side, fills), nil
}

// Series returns the enriched cumulative series for the program, or nil when
// the program does not exist.
func (s *ProgramService) Series(ctx context.Context, programID uint64) (*models.Program, []vwap.DayRow, error) {
	program, _, rows, err := s.load(ctx, programID)
	return program, rows, err
}

// Progress computes the pacing metrics using the cached live quote.
func (s *ProgramService) Progress(ctx context.Context, programID uint64) (*models.Program, *vwap.ProgressMetrics, error) {
	program, _, rows, err := s.load(ctx, programID)
	if err != nil || program == nil {
		return program, nil, err
	}

	cumQty := decimal.Zero
	cumNotional := decimal.Zero
	if n := len(rows); n > 0 {
		cumQty = rows[n-1].CumQty
		cumNotional = rows[n-1].CumNotional
	}
	m := vwap.ComputeProgress(vwap.ProgressInput{
		Program:     *program,
		TradedDays:  len(rows),
		CumQty:      cumQty,
		CumNotional: cumNotional,
		Quote:       s.quoteFor(ctx, program.Ticker),
	})
	return program, &m, nil
}

// Deviation compares the cached live quote against the adjusted benchmark.
func (s *ProgramService) Deviation(ctx context.Context, programID uint64) (*models.Program, *DeviationResult, error) {
	program, side, rows, err := s.load(ctx, programID)
	if err != nil || program == nil {
		return program, nil, err
	}

	benchmark := decimal.Zero
	res := DeviationResult{TradedDays: len(rows)}
	if n := len(rows); n > 0 {
		benchmark = rows[n-1].BenchmarkVWAP
		res.BenchmarkVWAP = &rows[n-1].BenchmarkVWAP
	}

	quote := s.quoteFor(ctx, program.Ticker)
	res.QuoteStatus = quote.Status
	if quote.Status == vwap.QuoteOK {
		res.Price = &quote.Price
		adj := vwap.AdjustedBenchmark(benchmark, len(rows), quote.Price)
		res.AdjustedBenchmark = &adj
	}
	res.DeviationPct = vwap.Deviation(side, quote, benchmark, len(rows))
	return program, &res, nil
}

// Simulate runs the same-day P&L simulator against the last known benchmark.
func (s *ProgramService) Simulate(ctx context.Context, programID uint64, price, qty *decimal.Decimal) (*models.Program, *vwap.SimulationResult, error) {
	program, side, rows, err := s.load(ctx, programID)
	if err != nil || program == nil {
		return program, nil, err
	}
	var lastBenchmark *decimal.Decimal
	if n := len(rows); n > 0 {
		lastBenchmark = &rows[n-1].BenchmarkVWAP
	}
	res := vwap.SimulateDay(side, price, qty, lastBenchmark, program.PerfFeePct)
	return program, &res, nil
}

// Scenarios projects completion outcomes for every day count up to the bound.
func (s *ProgramService) Scenarios(ctx context.Context, programID uint64, in vwap.ScenarioInput) (*models.Program, []vwap.FutureScenario, error) {
	program, side, rows, err := s.load(ctx, programID)
	if err != nil || program == nil {
		return program, nil, err
	}
	scenarios, err := vwap.ProjectScenarios(side, rows, in)
	if err != nil {
		return program, nil, err
	}
	return program, scenarios, nil
}

// quoteFor maps the cached quote row to the engine's LiveQuote. A missing
// row means the price was never fetched; a stale or failed fetch is an
// error state, never a zero price.
func (s *ProgramService) quoteFor(ctx context.Context, ticker string) vwap.LiveQuote {
	quote, err := s.Repo.GetQuoteByTicker(ctx, strings.TrimSpace(ticker))
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("quote lookup failed", zap.String("ticker", ticker), zap.Error(err))
		}
		return vwap.LiveQuote{Status: vwap.QuoteError}
	}
	if quote == nil {
		return vwap.LiveQuote{Status: vwap.QuoteLoading}
	}
	switch quote.Status {
	case string(vwap.QuoteOK):
	case string(vwap.QuoteLoading):
		return vwap.LiveQuote{Status: vwap.QuoteLoading}
	default:
		return vwap.LiveQuote{Status: vwap.QuoteError}
	}
	if s.MaxQuoteAge > 0 {
		now := time.Now()
		if s.Now != nil {
			now = s.Now()
		}
		if now.Sub(quote.FetchedAt) > s.MaxQuoteAge {
			return vwap.LiveQuote{Status: vwap.QuoteError}
		}
	}
	return vwap.LiveQuote{Price: quote.Price, Status: vwap.QuoteOK}
}
