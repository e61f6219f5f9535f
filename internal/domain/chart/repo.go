package chart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists charts and their failure-causes child rows. Reads
// only see active charts.
type Repository interface {
	Create(ctx context.Context, c *Chart) error
	// GetByID returns the chart with its failure causes and joined patient
	// fields, or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Chart, error)
	// List returns active charts newest first, optionally filtered by
	// patient.
	List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*Chart, int, error)
	Update(ctx context.Context, c *Chart) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// UpsertFailureCauses inserts or replaces the single child row.
	UpsertFailureCauses(ctx context.Context, chartID uuid.UUID, fc *FailureCauses) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PatientDirectory answers whether an active patient exists.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
