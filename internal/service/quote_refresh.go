package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vwaptrack/internal/client/pricefeed"
	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
	"vwaptrack/internal/vwap"
)

// QuoteRefreshService pulls the latest REST price for every ticker with an
// active program and caches it in the quotes table. Failures are recorded
// on the row so readers can tell a failed fetch from a missing one.
type QuoteRefreshService struct {
	Repo   repository.Repository
	Feed   *pricefeed.Client
	Logger *zap.Logger
}

func (s *QuoteRefreshService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Feed == nil {
		return nil
	}
	tickers, err := s.Repo.ListActiveTickers(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, ticker := range tickers {
		result, err := s.Feed.FetchPrice(ctx, ticker)
		if err != nil {
			msg := err.Error()
			_ = s.Repo.UpsertQuote(ctx, &models.Quote{
				Ticker:         ticker,
				ResolvedTicker: pricefeed.ResolveTicker(ticker),
				Price:          decimal.Zero,
				Status:         string(vwap.QuoteError),
				LastError:      &msg,
				FetchedAt:      now,
			})
			if s.Logger != nil {
				s.Logger.Warn("quote refresh failed", zap.String("ticker", ticker), zap.Error(err))
			}
			continue
		}
		if err := s.Repo.UpsertQuote(ctx, &models.Quote{
			Ticker:         ticker,
			ResolvedTicker: result.ResolvedTicker,
			Price:          result.Price,
			Status:         string(vwap.QuoteOK),
			FetchedAt:      now,
		}); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("quote upsert failed", zap.String("ticker", ticker), zap.Error(err))
			}
		}
	}
	return nil
}
