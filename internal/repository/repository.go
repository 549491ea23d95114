package repository

import (
	"context"
	"time"

	"vwaptrack/internal/models"
)

type ListProgramsParams struct {
	Limit   int
	Offset  int
	Status  *string
	Ticker  *string
	Side    *string
	OrderBy string
	Asc     *bool
}

type ListSnapshotsParams struct {
	ProgramID uint64
	Limit     int
	Offset    int
	Since     *time.Time
	Until     *time.Time
}

// Repository is the persistence surface consumed by services and handlers.
type Repository interface {
	// Programs
	CreateProgram(ctx context.Context, item *models.Program) error
	GetProgramByID(ctx context.Context, id uint64) (*models.Program, error)
	ListPrograms(ctx context.Context, params ListProgramsParams) ([]models.Program, error)
	CountPrograms(ctx context.Context, params ListProgramsParams) (int64, error)
	UpdateProgram(ctx context.Context, item *models.Program) error
	DeleteProgram(ctx context.Context, id uint64) error
	ListActiveTickers(ctx context.Context) ([]string, error)

	// Daily fills (ascending date, unique per program+date)
	InsertFill(ctx context.Context, item *models.DailyFill) error
	ListFillsByProgramID(ctx context.Context, programID uint64) ([]models.DailyFill, error)
	HasFillOnDate(ctx context.Context, programID uint64, date time.Time) (bool, error)
	DeleteFill(ctx context.Context, programID, fillID uint64) error

	// Quotes
	UpsertQuote(ctx context.Context, item *models.Quote) error
	GetQuoteByTicker(ctx context.Context, ticker string) (*models.Quote, error)

	// Metrics snapshots
	InsertMetricsSnapshot(ctx context.Context, item *models.MetricsSnapshot) error
	ListMetricsSnapshots(ctx context.Context, params ListSnapshotsParams) ([]models.MetricsSnapshot, error)
}
