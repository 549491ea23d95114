package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
	"vwaptrack/internal/vwap"
)

type ProgramHandler struct {
	Repo repository.Repository
}

func (h *ProgramHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/programs")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
	group.POST("/:id/fills", h.addFill)
	group.GET("/:id/fills", h.listFills)
	group.DELETE("/:id/fills/:fillID", h.deleteFill)
}

type programRequest struct {
	Ticker string `json:"ticker" binding:"required"`
	Name   string `json:"name"`
	Side   string `json:"side" binding:"required"`

	TargetQty      *decimal.Decimal `json:"target_qty"`
	TargetNotional *decimal.Decimal `json:"target_notional"`

	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`

	PriceLimit  *decimal.Decimal `json:"price_limit"`
	PerfFeePct  *decimal.Decimal `json:"perf_fee_pct"`
	FixedFeePct *decimal.Decimal `json:"fixed_fee_pct"`

	EarliestDayLimit *int `json:"earliest_day_limit"`
	BusinessDayLimit *int `json:"business_day_limit"`
	ExcludedDays     int  `json:"excluded_days"`

	Status string `json:"status"`
}

func (r programRequest) apply(item *models.Program) (string, bool) {
	side, err := vwap.ParseSide(r.Side)
	if err != nil {
		return err.Error(), false
	}
	start, ok := parseDate(r.StartDate)
	if !ok {
		return "invalid start_date, want YYYY-MM-DD", false
	}
	end, ok := parseDate(r.EndDate)
	if !ok {
		return "invalid end_date, want YYYY-MM-DD", false
	}
	if end.Before(start) {
		return "end_date before start_date", false
	}
	if r.TargetQty != nil && r.TargetNotional != nil &&
		r.TargetQty.IsPositive() && r.TargetNotional.IsPositive() {
		return "at most one of target_qty and target_notional may be set", false
	}
	if r.TargetQty != nil && r.TargetQty.IsNegative() {
		return "target_qty must not be negative", false
	}
	if r.TargetNotional != nil && r.TargetNotional.IsNegative() {
		return "target_notional must not be negative", false
	}

	item.Ticker = strings.TrimSpace(r.Ticker)
	item.Name = strings.TrimSpace(r.Name)
	item.Side = string(side)
	item.TargetQty = r.TargetQty
	item.TargetNotional = r.TargetNotional
	item.StartDate = start
	item.EndDate = end
	item.PriceLimit = r.PriceLimit
	item.PerfFeePct = r.PerfFeePct
	item.FixedFeePct = r.FixedFeePct
	item.EarliestDayLimit = r.EarliestDayLimit
	item.BusinessDayLimit = r.BusinessDayLimit
	item.ExcludedDays = r.ExcludedDays
	if status := strings.TrimSpace(r.Status); status != "" {
		item.Status = status
	}
	return "", true
}

func (h *ProgramHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item := models.Program{Status: "active"}
	if msg, ok := req.apply(&item); !ok {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if err := h.Repo.CreateProgram(c.Request.Context(), &item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *ProgramHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"created_at": "created_at",
		"ticker":     "ticker",
		"start_date": "start_date",
	})
	asc := strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc")

	var status *string
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status = &v
	}
	var ticker *string
	if v := strings.TrimSpace(c.Query("ticker")); v != "" {
		ticker = &v
	}
	var side *string
	if v := strings.TrimSpace(c.Query("side")); v != "" {
		side = &v
	}

	params := repository.ListProgramsParams{
		Limit:   limit,
		Offset:  offset,
		Status:  status,
		Ticker:  ticker,
		Side:    side,
		OrderBy: orderBy,
		Asc:     boolPtr(asc),
	}
	items, err := h.Repo.ListPrograms(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountPrograms(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *ProgramHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetProgramByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *ProgramHandler) update(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetProgramByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if msg, ok := req.apply(item); !ok {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if err := h.Repo.UpdateProgram(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *ProgramHandler) delete(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteProgram(c.Request.Context(), id); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

type fillRequest struct {
	Date           string          `json:"date" binding:"required"`
	FilledQty      decimal.Decimal `json:"filled_qty"`
	FilledAvgPrice decimal.Decimal `json:"filled_avg_price"`
	DayVWAP        decimal.Decimal `json:"day_vwap" binding:"required"`
}

func (h *ProgramHandler) addFill(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	program, err := h.Repo.GetProgramByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if program == nil {
		Error(c, http.StatusNotFound, "program not found", nil)
		return
	}

	var req fillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", nil)
		return
	}
	if req.FilledQty.IsNegative() {
		Error(c, http.StatusBadRequest, "filled_qty must not be negative", nil)
		return
	}
	if req.FilledQty.IsPositive() && !req.FilledAvgPrice.IsPositive() {
		Error(c, http.StatusBadRequest, "filled_avg_price must be positive when filled_qty is positive", nil)
		return
	}
	if !req.DayVWAP.IsPositive() {
		Error(c, http.StatusBadRequest, "day_vwap must be positive", nil)
		return
	}

	exists, err := h.Repo.HasFillOnDate(c.Request.Context(), id, date)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if exists {
		Error(c, http.StatusConflict, "fill already recorded for "+date.Format("2006-01-02"), nil)
		return
	}

	item := models.DailyFill{
		ProgramID:      id,
		Date:           date,
		FilledQty:      req.FilledQty,
		FilledAvgPrice: req.FilledAvgPrice,
		DayVWAP:        req.DayVWAP,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Repo.InsertFill(c.Request.Context(), &item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *ProgramHandler) listFills(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	items, err := h.Repo.ListFillsByProgramID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *ProgramHandler) deleteFill(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	fillID := uint64Param(c, "fillID")
	if id == 0 || fillID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Repo.DeleteFill(c.Request.Context(), id, fillID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": fillID}, nil)
}
