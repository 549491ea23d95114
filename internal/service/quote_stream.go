package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"vwaptrack/internal/client/pricefeed"
	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
	"vwaptrack/internal/vwap"
)

// QuoteStreamService keeps the quote cache fresh from the feed's websocket
// stream. Subscriptions use resolved tickers; frames are mapped back to the
// program ticker they were resolved from before the upsert.
type QuoteStreamService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	mu         sync.Mutex
	byResolved map[string]string
}

type QuoteStreamOptions struct {
	URL string
}

func (s *QuoteStreamService) Run(ctx context.Context, opts QuoteStreamOptions) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	stream := pricefeed.NewStream(pricefeed.StreamOptions{
		URL:            opts.URL,
		TickerProvider: s.resolvedTickers,
		Logger:         s.Logger,
	})
	return stream.Run(ctx, func(frame pricefeed.QuoteFrame) {
		s.handleFrame(ctx, frame)
	})
}

func (s *QuoteStreamService) resolvedTickers(ctx context.Context) ([]string, error) {
	tickers, err := s.Repo.ListActiveTickers(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byResolved = make(map[string]string, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		resolved := pricefeed.ResolveTicker(t)
		if resolved == "" {
			continue
		}
		s.byResolved[resolved] = t
		out = append(out, resolved)
	}
	return out, nil
}

func (s *QuoteStreamService) handleFrame(ctx context.Context, frame pricefeed.QuoteFrame) {
	if !frame.Price.IsPositive() {
		return
	}
	s.mu.Lock()
	ticker, ok := s.byResolved[frame.Ticker]
	s.mu.Unlock()
	if !ok {
		return
	}
	err := s.Repo.UpsertQuote(ctx, &models.Quote{
		Ticker:         ticker,
		ResolvedTicker: frame.Ticker,
		Price:          frame.Price,
		Status:         string(vwap.QuoteOK),
		FetchedAt:      time.Now().UTC(),
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("stream quote upsert failed", zap.String("ticker", ticker), zap.Error(err))
	}
}
