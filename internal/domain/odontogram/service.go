package odontogram

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/odontia/clinic/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("tooth record not found")
	ErrChartNotFound   = errors.New("chart not found")
	ErrNoTeeth         = errors.New("at least one tooth is required")
	ErrInvalidTooth    = errors.New("tooth number must be between 1 and 48")
	ErrInvalidQuadrant = errors.New("quadrant must be between 1 and 4")
	ErrInvalidState    = errors.New("invalid tooth state")
	ErrNoChanges       = errors.New("no fields to update")
)

type Service struct {
	repo   Repository
	charts ChartDirectory
	txRun  db.TxRunner
}

func NewService(repo Repository, charts ChartDirectory, txRun db.TxRunner) *Service {
	return &Service{repo: repo, charts: charts, txRun: txRun}
}

func validateTooth(in ToothInput) error {
	if in.Tooth < 1 || in.Tooth > 48 {
		return fmt.Errorf("%w: %d", ErrInvalidTooth, in.Tooth)
	}
	if in.Quadrant < 1 || in.Quadrant > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidQuadrant, in.Quadrant)
	}
	if !ValidState(in.State) {
		return fmt.Errorf("%w: %q", ErrInvalidState, in.State)
	}
	return nil
}

// Save upserts the given teeth for a chart in one transaction. Either the
// whole batch lands or none of it does.
func (s *Service) Save(ctx context.Context, chartID uuid.UUID, teeth []ToothInput) ([]*ToothRecord, error) {
	if len(teeth) == 0 {
		return nil, ErrNoTeeth
	}
	for _, in := range teeth {
		if err := validateTooth(in); err != nil {
			return nil, err
		}
	}

	var out []*ToothRecord
	err := s.txRun(ctx, func(ctx context.Context) error {
		ok, err := s.charts.Exists(ctx, chartID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrChartNotFound
		}

		for _, in := range teeth {
			rec := &ToothRecord{
				ChartID:  chartID,
				Tooth:    in.Tooth,
				Quadrant: in.Quadrant,
				State:    in.State,
				Notes:    in.Notes,
			}
			if err := s.repo.Upsert(ctx, rec); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByChart returns the chart's odontogram grouped by quadrant.
func (s *Service) GetByChart(ctx context.Context, chartID uuid.UUID) (*Odontogram, error) {
	ok, err := s.charts.Exists(ctx, chartID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrChartNotFound
	}

	all, err := s.repo.ListByChart(ctx, chartID)
	if err != nil {
		return nil, err
	}

	o := &Odontogram{
		Quadrant1: []*ToothRecord{},
		Quadrant2: []*ToothRecord{},
		Quadrant3: []*ToothRecord{},
		Quadrant4: []*ToothRecord{},
		All:       all,
	}
	if o.All == nil {
		o.All = []*ToothRecord{}
	}
	for _, t := range all {
		switch t.Quadrant {
		case 1:
			o.Quadrant1 = append(o.Quadrant1, t)
		case 2:
			o.Quadrant2 = append(o.Quadrant2, t)
		case 3:
			o.Quadrant3 = append(o.Quadrant3, t)
		case 4:
			o.Quadrant4 = append(o.Quadrant4, t)
		}
	}
	return o, nil
}

func (s *Service) History(ctx context.Context, chartID uuid.UUID, tooth int) ([]*ToothRecord, error) {
	if tooth < 1 || tooth > 48 {
		return nil, ErrInvalidTooth
	}
	return s.repo.History(ctx, chartID, tooth)
}

// UpdateTooth changes the state and/or notes of one record.
func (s *Service) UpdateTooth(ctx context.Context, id uuid.UUID, state *string, notes *string) (*ToothRecord, error) {
	if state == nil && notes == nil {
		return nil, ErrNoChanges
	}
	if state != nil && !ValidState(*state) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, *state)
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if state != nil {
		rec.State = *state
	}
	if notes != nil {
		rec.Notes = notes
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
