package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for appointments.
type Repository interface {
	// LockDate takes the booking lock for the given date until the enclosing
	// transaction ends. Every booking transaction acquires it before scanning
	// for conflicts, so two bookings for the same day serialize even when the
	// slot is empty and the scan itself has no rows to lock.
	LockDate(ctx context.Context, date time.Time) error

	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListOverlapping returns appointments on the given date whose half-open
	// interval intersects [start, end), skipping cancelled and no-show rows.
	// When exclude is non-nil that appointment is left out of the scan.
	// Implementations lock the returned rows until the enclosing transaction
	// ends so concurrent bookings serialize.
	ListOverlapping(ctx context.Context, date time.Time, start, end TimeOfDay, exclude *uuid.UUID) ([]*Appointment, error)

	ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error)
	ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListUpcoming(ctx context.Context, from time.Time, days int) ([]*Appointment, error)
}

// PatientDirectory is the slice of the patient registry the scheduler needs.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
