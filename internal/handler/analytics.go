package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vwaptrack/internal/repository"
	"vwaptrack/internal/service"
	"vwaptrack/internal/vwap"
)

// AnalyticsHandler exposes the derived views over a program: the enriched
// cumulative series, pacing metrics, benchmark deviation, the same-day
// simulator and the multi-day scenario projector.
type AnalyticsHandler struct {
	Repo     repository.Repository
	Programs *service.ProgramService
}

func (h *AnalyticsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/programs/:id")
	group.GET("/series", h.series)
	group.GET("/progress", h.progress)
	group.GET("/deviation", h.deviation)
	group.POST("/simulate", h.simulate)
	group.POST("/scenarios", h.scenarios)
	group.GET("/snapshots", h.snapshots)
}

func (h *AnalyticsHandler) series(c *gin.Context) {
	if h.Programs == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	program, rows, err := h.Programs.Series(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if program == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	Ok(c, gin.H{"program_id": program.ID, "ticker": program.Ticker, "rows": rows}, nil)
}

func (h *AnalyticsHandler) progress(c *gin.Context) {
	if h.Programs == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	program, metrics, err := h.Programs.Progress(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if program == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	Ok(c, metrics, nil)
}

func (h *AnalyticsHandler) deviation(c *gin.Context) {
	if h.Programs == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	program, res, err := h.Programs.Deviation(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if program == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	Ok(c, res, nil)
}

type simulateRequest struct {
	Price *decimal.Decimal `json:"price"`
	Qty   *decimal.Decimal `json:"qty"`
}

func (h *AnalyticsHandler) simulate(c *gin.Context) {
	if h.Programs == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	program, res, err := h.Programs.Simulate(c.Request.Context(), id, req.Price, req.Qty)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if program == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	Ok(c, res, nil)
}

func (h *AnalyticsHandler) scenarios(c *gin.Context) {
	if h.Programs == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req vwap.ScenarioInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.MaxDays <= 0 || !req.Price.IsPositive() || !req.Shares.IsPositive() {
		Error(c, http.StatusBadRequest, "price, shares and max_days must all be positive", nil)
		return
	}
	program, scenarios, err := h.Programs.Scenarios(c.Request.Context(), id, req)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if program == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	Ok(c, scenarios, nil)
}

func (h *AnalyticsHandler) snapshots(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	params := repository.ListSnapshotsParams{
		ProgramID: id,
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
	}
	if v := c.Query("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid since, want RFC3339", nil)
			return
		}
		params.Since = &ts
	}
	if v := c.Query("until"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid until, want RFC3339", nil)
			return
		}
		params.Until = &ts
	}
	items, err := h.Repo.ListMetricsSnapshots(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
