package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odontia/clinic/internal/platform/db"
	"github.com/odontia/clinic/pkg/clock"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidRange    = errors.New("start time must be before end time")
	ErrOutsideHours    = errors.New("appointment is outside clinic hours")
	ErrTooShort        = errors.New("appointment is shorter than the minimum duration")
	ErrInvalidStatus   = errors.New("invalid appointment status")
	ErrTerminalStatus  = errors.New("appointment is in a terminal status")
	ErrNoChanges       = errors.New("no changes requested")
)

// ConflictError reports a booking collision with an existing appointment.
type ConflictError struct {
	AppointmentID uuid.UUID
	Start         TimeOfDay
	End           TimeOfDay
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointment conflicts with %s (%s-%s)", e.AppointmentID, e.Start, e.End)
}

// Hours is the clinic booking policy: the daily window and the minimum
// appointment length.
type Hours struct {
	Open        TimeOfDay
	Close       TimeOfDay
	MinDuration time.Duration
}

// CreateInput carries the fields needed to book an appointment.
type CreateInput struct {
	PatientID uuid.UUID
	Date      time.Time
	Start     TimeOfDay
	End       TimeOfDay
	Reason    *string
	Notes     *string
}

// Service books and maintains appointments. Every mutation validates first
// and then commits in a single transaction; the transaction takes the date's
// booking lock before scanning so concurrent bookings for the same slot
// serialize and exactly one wins.
type Service struct {
	repo     Repository
	patients PatientDirectory
	hours    Hours
	txRun    db.TxRunner
	clock    clock.Clock
}

func NewService(repo Repository, patients PatientDirectory, hours Hours, txRun db.TxRunner, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{repo: repo, patients: patients, hours: hours, txRun: txRun, clock: clk}
}

// validateWindow enforces the booking window: the interval must be well
// formed, fit inside clinic hours, and meet the minimum duration.
func (s *Service) validateWindow(start, end TimeOfDay) error {
	if start >= end {
		return ErrInvalidRange
	}
	if start < s.hours.Open || end > s.hours.Close {
		return ErrOutsideHours
	}
	if time.Duration(end-start)*time.Minute < s.hours.MinDuration {
		return ErrTooShort
	}
	return nil
}

// checkConflicts scans for overlapping active appointments on the date and
// returns a ConflictError naming the first collider.
func (s *Service) checkConflicts(ctx context.Context, date time.Time, start, end TimeOfDay, exclude *uuid.UUID) error {
	overlapping, err := s.repo.ListOverlapping(ctx, date, start, end, exclude)
	if err != nil {
		return fmt.Errorf("scan for conflicts: %w", err)
	}
	if len(overlapping) > 0 {
		first := overlapping[0]
		return &ConflictError{AppointmentID: first.ID, Start: first.Start, End: first.End}
	}
	return nil
}

// Create books a new appointment. The patient check, conflict scan and
// insert all happen inside one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if err := s.validateWindow(in.Start, in.End); err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID: in.PatientID,
		Date:      in.Date,
		Start:     in.Start,
		End:       in.End,
		Status:    StatusScheduled,
		Reason:    in.Reason,
		Notes:     in.Notes,
	}

	err := s.txRun(ctx, func(ctx context.Context) error {
		if err := s.repo.LockDate(ctx, in.Date); err != nil {
			return fmt.Errorf("lock booking date: %w", err)
		}

		exists, err := s.patients.Exists(ctx, in.PatientID)
		if err != nil {
			return fmt.Errorf("check patient: %w", err)
		}
		if !exists {
			return ErrPatientNotFound
		}

		if err := s.checkConflicts(ctx, in.Date, in.Start, in.End, nil); err != nil {
			return err
		}

		return s.repo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule applies a partial update to a non-terminal appointment. When
// the patch moves the appointment in time, the merged window is validated
// and re-checked for conflicts, excluding the appointment itself; patches
// touching only status, reason or notes skip the scan.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, patch Patch) (*Appointment, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Status != nil && !validStatuses[*patch.Status] {
		return nil, ErrInvalidStatus
	}

	var updated *Appointment
	err := s.txRun(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if IsTerminal(a.Status) {
			return ErrTerminalStatus
		}

		if patch.PatientID != nil && *patch.PatientID != a.PatientID {
			exists, err := s.patients.Exists(ctx, *patch.PatientID)
			if err != nil {
				return fmt.Errorf("check patient: %w", err)
			}
			if !exists {
				return ErrPatientNotFound
			}
			a.PatientID = *patch.PatientID
		}
		if patch.Date != nil {
			a.Date = *patch.Date
		}
		if patch.Start != nil {
			a.Start = *patch.Start
		}
		if patch.End != nil {
			a.End = *patch.End
		}
		if patch.Status != nil {
			a.Status = *patch.Status
		}
		if patch.Reason != nil {
			a.Reason = patch.Reason
		}
		if patch.Notes != nil {
			a.Notes = patch.Notes
		}

		if patch.ChangesInterval() {
			if err := s.validateWindow(a.Start, a.End); err != nil {
				return err
			}
			if err := s.repo.LockDate(ctx, a.Date); err != nil {
				return fmt.Errorf("lock booking date: %w", err)
			}
			if err := s.checkConflicts(ctx, a.Date, a.Start, a.End, &a.ID); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetStatus moves an appointment through its lifecycle. Status changes never
// re-run the conflict scan: freeing a slot by cancelling cannot fail, and a
// completed visit stays where it was.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, ErrInvalidStatus
	}

	var updated *Appointment
	err := s.txRun(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		a.Status = status
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an appointment outright.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	return s.repo.ListByDate(ctx, date)
}

func (s *Service) ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	if to.Before(from) {
		return nil, 0, ErrInvalidRange
	}
	return s.repo.ListByRange(ctx, from, to, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Today returns the clock's current date at UTC midnight. Handlers use it
// for default date ranges so those stay testable against a fixed clock.
func (s *Service) Today() time.Time {
	now := s.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ListUpcoming returns scheduled and confirmed appointments in the next
// `days` days, starting from the clock's today.
func (s *Service) ListUpcoming(ctx context.Context, days int) ([]*Appointment, error) {
	if days <= 0 {
		days = 7
	}
	return s.repo.ListUpcoming(ctx, s.Today(), days)
}
