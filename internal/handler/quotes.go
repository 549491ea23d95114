package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vwaptrack/internal/client/pricefeed"
	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
)

// QuoteHandler serves the cached live quotes. With refresh=true it fetches
// a fresh price from the feed and updates the cache in the same request.
type QuoteHandler struct {
	Repo repository.Repository
	Feed *pricefeed.Client
}

func (h *QuoteHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/quotes")
	group.GET("", h.get)
}

func (h *QuoteHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		Error(c, http.StatusBadRequest, "ticker is required", nil)
		return
	}

	if c.Query("refresh") == "true" && h.Feed != nil {
		item := h.refresh(c, ticker)
		if item == nil {
			return
		}
		Ok(c, item, nil)
		return
	}

	item, err := h.Repo.GetQuoteByTicker(c.Request.Context(), ticker)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "no quote for "+ticker, nil)
		return
	}
	Ok(c, item, nil)
}

// refresh fetches and caches a fresh quote; on failure it writes the error
// response itself and returns nil.
func (h *QuoteHandler) refresh(c *gin.Context, ticker string) *models.Quote {
	ctx := c.Request.Context()
	res, err := h.Feed.FetchPrice(ctx, ticker)
	if err != nil {
		msg := err.Error()
		stale := &models.Quote{
			Ticker:         ticker,
			ResolvedTicker: pricefeed.ResolveTicker(ticker),
			Status:         "error",
			LastError:      &msg,
			FetchedAt:      time.Now().UTC(),
		}
		if upErr := h.Repo.UpsertQuote(ctx, stale); upErr != nil {
			Error(c, http.StatusBadGateway, upErr.Error(), nil)
			return nil
		}
		Error(c, http.StatusBadGateway, msg, nil)
		return nil
	}
	item := &models.Quote{
		Ticker:         ticker,
		ResolvedTicker: res.ResolvedTicker,
		Price:          res.Price,
		Status:         "ok",
		FetchedAt:      time.Now().UTC(),
	}
	if err := h.Repo.UpsertQuote(ctx, item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil
	}
	return item
}
