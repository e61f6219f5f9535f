package odontogram

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists tooth records, one row per (chart, tooth).
type Repository interface {
	// Upsert inserts the record or replaces the existing row for the same
	// chart and tooth, refreshing the recorded date.
	Upsert(ctx context.Context, rec *ToothRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ToothRecord, error)
	ListByChart(ctx context.Context, chartID uuid.UUID) ([]*ToothRecord, error)
	// History returns the recorded entries for one tooth, newest first.
	History(ctx context.Context, chartID uuid.UUID, tooth int) ([]*ToothRecord, error)
	Update(ctx context.Context, rec *ToothRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChartDirectory answers whether an active chart exists.
type ChartDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
