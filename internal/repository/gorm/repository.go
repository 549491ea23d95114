package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Programs ---------------------------------------------------------------

func (s *Store) CreateProgram(ctx context.Context, item *models.Program) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetProgramByID(ctx context.Context, id uint64) (*models.Program, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Program
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func programQuery(db *gorm.DB, params repository.ListProgramsParams) *gorm.DB {
	query := db.Model(&models.Program{})
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.Ticker != nil && strings.TrimSpace(*params.Ticker) != "" {
		query = query.Where("ticker = ?", strings.TrimSpace(*params.Ticker))
	}
	if params.Side != nil && strings.TrimSpace(*params.Side) != "" {
		query = query.Where("side = ?", strings.ToUpper(strings.TrimSpace(*params.Side)))
	}
	return query
}

func (s *Store) ListPrograms(ctx context.Context, params repository.ListProgramsParams) ([]models.Program, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := programQuery(s.db.WithContext(ctx), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Program
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPrograms(ctx context.Context, params repository.ListProgramsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := programQuery(s.db.WithContext(ctx), params).Count(&total).Error
	return total, err
}

func (s *Store) UpdateProgram(ctx context.Context, item *models.Program) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteProgram(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", id).Delete(&models.DailyFill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&models.MetricsSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Program{}, "id = ?", id).Error
	})
}

func (s *Store) ListActiveTickers(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var tickers []string
	err := s.db.WithContext(ctx).
		Model(&models.Program{}).
		Where("status = ?", "active").
		Distinct("ticker").
		Order("ticker asc").
		Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

// --- Daily fills ------------------------------------------------------------

func (s *Store) InsertFill(ctx context.Context, item *models.DailyFill) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListFillsByProgramID(ctx context.Context, programID uint64) ([]models.DailyFill, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DailyFill
	err := s.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) HasFillOnDate(ctx context.Context, programID uint64, date time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.DailyFill{}).
		Where("program_id = ? AND date = ?", programID, date).
		Count(&total).Error
	return total > 0, err
}

func (s *Store) DeleteFill(ctx context.Context, programID, fillID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Delete(&models.DailyFill{}, "id = ?", fillID).Error
}

// --- Quotes -----------------------------------------------------------------

func (s *Store) UpsertQuote(ctx context.Context, item *models.Quote) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Ticker) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"resolved_ticker",
			"price",
			"status",
			"last_error",
			"fetched_at",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetQuoteByTicker(ctx context.Context, ticker string) (*models.Quote, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Quote
	err := s.db.WithContext(ctx).First(&item, "ticker = ?", strings.TrimSpace(ticker)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- Metrics snapshots ------------------------------------------------------

func (s *Store) InsertMetricsSnapshot(ctx context.Context, item *models.MetricsSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListMetricsSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.MetricsSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.MetricsSnapshot{})
	if params.ProgramID > 0 {
		query = query.Where("program_id = ?", params.ProgramID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("snapshot_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("snapshot_at <= ?", *params.Until)
	}
	limit := normalizeLimit(params.Limit, 168)
	offset := normalizeOffset(params.Offset)
	var items []models.MetricsSnapshot
	err := query.Order("snapshot_at desc").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
