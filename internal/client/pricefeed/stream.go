package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// QuoteFrame is one streamed price update.
type QuoteFrame struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
	TS     int64           `json:"ts"`
}

type subscribeRequest struct {
	Type    string   `json:"type"`
	Tickers []string `json:"tickers"`
}

// TickerProvider supplies the current set of resolved tickers to subscribe
// to; re-evaluated on every (re)connect.
type TickerProvider func(context.Context) ([]string, error)

type StreamOptions struct {
	URL            string
	TickerProvider TickerProvider
	Heartbeat      time.Duration
	PingTimeout    time.Duration
	BackoffMin     time.Duration
	BackoffMax     time.Duration
	Logger         *zap.Logger
}

// Stream maintains a websocket subscription to the feed's quote stream,
// reconnecting with jittered backoff.
type Stream struct {
	opts StreamOptions
}

func NewStream(opts StreamOptions) *Stream {
	if opts.Heartbeat == 0 {
		opts.Heartbeat = 20 * time.Second
	}
	if opts.PingTimeout == 0 {
		opts.PingTimeout = 5 * time.Second
	}
	if opts.BackoffMin == 0 {
		opts.BackoffMin = 1 * time.Second
	}
	if opts.BackoffMax == 0 {
		opts.BackoffMax = 30 * time.Second
	}
	return &Stream{opts: opts}
}

func (s *Stream) Run(ctx context.Context, onQuote func(QuoteFrame)) error {
	if s == nil {
		return fmt.Errorf("stream is nil")
	}
	if s.opts.URL == "" {
		return fmt.Errorf("stream url is required")
	}

	backoff := s.opts.BackoffMin
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, _, err := websocket.Dial(ctx, s.opts.URL, nil)
		if err != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("quote stream connect failed", zap.Error(err))
			}
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, s.opts.BackoffMax)
			continue
		}

		var tickers []string
		if s.opts.TickerProvider != nil {
			if t, err := s.opts.TickerProvider(ctx); err == nil {
				tickers = t
			}
		}
		if len(tickers) == 0 {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("quote stream subscribe skipped: no tickers")
			}
			_ = conn.Close(websocket.StatusNormalClosure, "no tickers")
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, s.opts.BackoffMax)
			continue
		}

		if err := subscribe(ctx, conn, tickers); err != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("quote stream subscribe failed", zap.Error(err))
			}
			_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, s.opts.BackoffMax)
			continue
		}
		if s.opts.Logger != nil {
			s.opts.Logger.Info("quote stream subscribed", zap.Int("tickers", len(tickers)))
		}
		backoff = s.opts.BackoffMin

		err = s.consume(ctx, conn, onQuote)
		_ = conn.Close(websocket.StatusNormalClosure, "reconnect")
		if err == nil || errors.Is(err, context.Canceled) {
			return err
		}
		if err := sleepWithJitter(ctx, backoff); err != nil {
			return err
		}
		backoff = nextBackoff(backoff, s.opts.BackoffMax)
	}
}

func subscribe(ctx context.Context, conn *websocket.Conn, tickers []string) error {
	payload, err := json.Marshal(subscribeRequest{Type: "quotes", Tickers: tickers})
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func (s *Stream) consume(ctx context.Context, conn *websocket.Conn, onQuote func(QuoteFrame)) error {
	heartbeatErr := make(chan error, 1)
	heartbeatCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(s.opts.Heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-heartbeatCtx.Done():
				heartbeatErr <- heartbeatCtx.Err()
				return
			case <-ticker.C:
				pingCtx, cancelPing := context.WithTimeout(heartbeatCtx, s.opts.PingTimeout)
				err := conn.Ping(pingCtx)
				cancelPing()
				if err != nil {
					heartbeatErr <- err
					return
				}
			}
		}
	}()

	for {
		select {
		case err := <-heartbeatErr:
			return err
		default:
		}
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		var frame QuoteFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			if s.opts.Logger != nil {
				s.opts.Logger.Warn("quote stream bad frame", zap.Error(err))
			}
			continue
		}
		if frame.Ticker == "" {
			continue
		}
		onQuote(frame)
	}
}

func sleepWithJitter(ctx context.Context, d time.Duration) error {
	jitter := time.Duration(rand.Int63n(int64(d)/2 + 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d + jitter):
		return nil
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
