package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patients. Reads only see active rows.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByRecordNumber(ctx context.Context, rn string) (*Patient, error)
	// List returns active patients newest first, optionally filtered by a
	// case-insensitive search over names, record number, and phone.
	List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	// SoftDelete flips active to false; the row stays for history.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
