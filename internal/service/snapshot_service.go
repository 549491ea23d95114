package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
	"vwaptrack/internal/vwap"
)

// SnapshotService periodically captures each active program's computed
// metrics so progress can be charted over time without replaying history.
type SnapshotService struct {
	Repo     repository.Repository
	Programs *ProgramService
	Logger   *zap.Logger

	// SeriesTail is how many trailing series rows go into each snapshot.
	SeriesTail int
}

type snapshotPayload struct {
	Ticker     string               `json:"ticker"`
	Side       string               `json:"side"`
	TradedDays int                  `json:"traded_days"`
	Progress   vwap.ProgressMetrics `json:"progress"`
	SeriesTail []vwap.DayRow        `json:"series_tail"`
	Deviation  *DeviationResult     `json:"deviation"`
}

func (s *SnapshotService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Programs == nil {
		return nil
	}
	status := "active"
	programs, err := s.Repo.ListPrograms(ctx, repository.ListProgramsParams{
		Status: &status,
		Limit:  500,
	})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, p := range programs {
		if err := s.snapshotProgram(ctx, p.ID, now); err != nil && s.Logger != nil {
			s.Logger.Warn("program snapshot failed", zap.Uint64("program_id", p.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *SnapshotService) snapshotProgram(ctx context.Context, programID uint64, now time.Time) error {
	program, progress, err := s.Programs.Progress(ctx, programID)
	if err != nil || program == nil {
		return err
	}
	_, rows, err := s.Programs.Series(ctx, programID)
	if err != nil {
		return err
	}
	_, deviation, err := s.Programs.Deviation(ctx, programID)
	if err != nil {
		return err
	}

	tail := s.SeriesTail
	if tail <= 0 {
		tail = 10
	}
	if len(rows) > tail {
		rows = rows[len(rows)-tail:]
	}

	payload, err := json.Marshal(snapshotPayload{
		Ticker:     program.Ticker,
		Side:       program.Side,
		TradedDays: progress.TradedDays,
		Progress:   *progress,
		SeriesTail: rows,
		Deviation:  deviation,
	})
	if err != nil {
		return err
	}
	return s.Repo.InsertMetricsSnapshot(ctx, &models.MetricsSnapshot{
		ProgramID:  programID,
		SnapshotAt: now,
		Payload:    datatypes.JSON(payload),
	})
}
