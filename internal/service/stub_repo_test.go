package service

import (
	"context"
	"sort"
	"time"

	"vwaptrack/internal/models"
	"vwaptrack/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but only a small subset is used by
// service tests.
type stubRepo struct {
	programs  map[uint64]models.Program
	fills     map[uint64][]models.DailyFill
	quotes    map[string]models.Quote
	snapshots []models.MetricsSnapshot
	nextID    uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		programs: make(map[uint64]models.Program),
		fills:    make(map[uint64][]models.DailyFill),
		quotes:   make(map[string]models.Quote),
		nextID:   1,
	}
}

func (s *stubRepo) CreateProgram(ctx context.Context, item *models.Program) error {
	item.ID = s.nextID
	s.nextID++
	s.programs[item.ID] = *item
	return nil
}

func (s *stubRepo) GetProgramByID(ctx context.Context, id uint64) (*models.Program, error) {
	item, ok := s.programs[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) ListPrograms(ctx context.Context, params repository.ListProgramsParams) ([]models.Program, error) {
	out := make([]models.Program, 0, len(s.programs))
	for _, p := range s.programs {
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountPrograms(ctx context.Context, params repository.ListProgramsParams) (int64, error) {
	items, _ := s.ListPrograms(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) UpdateProgram(ctx context.Context, item *models.Program) error {
	s.programs[item.ID] = *item
	return nil
}

func (s *stubRepo) DeleteProgram(ctx context.Context, id uint64) error {
	delete(s.programs, id)
	delete(s.fills, id)
	return nil
}

func (s *stubRepo) ListActiveTickers(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.programs {
		if p.Status != "active" || seen[p.Ticker] {
			continue
		}
		seen[p.Ticker] = true
		out = append(out, p.Ticker)
	}
	sort.Strings(out)
	return out, nil
}

func (s *stubRepo) InsertFill(ctx context.Context, item *models.DailyFill) error {
	s.fills[item.ProgramID] = append(s.fills[item.ProgramID], *item)
	sort.Slice(s.fills[item.ProgramID], func(i, j int) bool {
		return s.fills[item.ProgramID][i].Date.Before(s.fills[item.ProgramID][j].Date)
	})
	return nil
}

func (s *stubRepo) ListFillsByProgramID(ctx context.Context, programID uint64) ([]models.DailyFill, error) {
	return s.fills[programID], nil
}

func (s *stubRepo) HasFillOnDate(ctx context.Context, programID uint64, date time.Time) (bool, error) {
	for _, f := range s.fills[programID] {
		if f.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) DeleteFill(ctx context.Context, programID, fillID uint64) error {
	kept := s.fills[programID][:0]
	for _, f := range s.fills[programID] {
		if f.ID != fillID {
			kept = append(kept, f)
		}
	}
	s.fills[programID] = kept
	return nil
}

func (s *stubRepo) UpsertQuote(ctx context.Context, item *models.Quote) error {
	s.quotes[item.Ticker] = *item
	return nil
}

func (s *stubRepo) GetQuoteByTicker(ctx context.Context, ticker string) (*models.Quote, error) {
	item, ok := s.quotes[ticker]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) InsertMetricsSnapshot(ctx context.Context, item *models.MetricsSnapshot) error {
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *stubRepo) ListMetricsSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.MetricsSnapshot, error) {
	var out []models.MetricsSnapshot
	for _, snap := range s.snapshots {
		if snap.ProgramID == params.ProgramID {
			out = append(out, snap)
		}
	}
	return out, nil
}
