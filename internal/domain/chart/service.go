package chart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/odontia/clinic/internal/platform/db"
	"github.com/odontia/clinic/pkg/clock"
)

var (
	ErrNotFound        = errors.New("chart not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidTooth    = errors.New("invalid tooth number")
	ErrInvalidMobility = errors.New("mobility grade must be between 0 and 3")
	ErrNoChanges       = errors.New("no fields to update")
)

// CreateInput carries a new chart. Date defaults to today. FailureCauses
// is only persisted when prior treatment is flagged as a cause.
type CreateInput struct {
	PatientID       uuid.UUID
	Tooth           int
	Date            time.Time
	ReferringDoctor *string
	ConsultReason   *string
	History         *string
	Causes          CauseFlags
	Pain            PainDescriptors
	Zone            PeriapicalZone
	Periodontal     PeriodontalExam
	Chamber         ChamberFindings
	FailureCauses   *FailureCauses
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	txRun    db.TxRunner
	clock    clock.Clock
}

func NewService(repo Repository, patients PatientDirectory, txRun db.TxRunner, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{repo: repo, patients: patients, txRun: txRun, clock: clk}
}

func validMobility(grade int) bool {
	return grade >= 0 && grade <= 3
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Chart, error) {
	if !ValidTooth(in.Tooth) {
		return nil, ErrInvalidTooth
	}
	if !validMobility(in.Periodontal.Mobility) {
		return nil, ErrInvalidMobility
	}
	if in.Date.IsZero() {
		now := s.clock.Now().UTC()
		in.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	c := &Chart{
		PatientID:       in.PatientID,
		Tooth:           in.Tooth,
		Date:            in.Date,
		ReferringDoctor: in.ReferringDoctor,
		ConsultReason:   in.ConsultReason,
		History:         in.History,
		Causes:          in.Causes,
		Pain:            in.Pain,
		Zone:            in.Zone,
		Periodontal:     in.Periodontal,
		Chamber:         in.Chamber,
	}
	err := s.txRun(ctx, func(ctx context.Context) error {
		ok, err := s.patients.Exists(ctx, in.PatientID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPatientNotFound
		}

		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		if in.FailureCauses != nil && in.Causes.PriorTreatment {
			c.FailureCauses = in.FailureCauses
			return s.repo.UpsertFailureCauses(ctx, c.ID, in.FailureCauses)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Chart, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*Chart, int, error) {
	return s.repo.List(ctx, patientID, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Chart, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if patch.Tooth != nil && !ValidTooth(*patch.Tooth) {
		return nil, ErrInvalidTooth
	}
	if patch.Periodontal != nil && !validMobility(patch.Periodontal.Mobility) {
		return nil, ErrInvalidMobility
	}

	var c *Chart
	err := s.txRun(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Tooth != nil {
			c.Tooth = *patch.Tooth
		}
		if patch.Date != nil {
			c.Date = *patch.Date
		}
		if patch.ReferringDoctor != nil {
			c.ReferringDoctor = patch.ReferringDoctor
		}
		if patch.ConsultReason != nil {
			c.ConsultReason = patch.ConsultReason
		}
		if patch.History != nil {
			c.History = patch.History
		}
		if patch.Causes != nil {
			c.Causes = *patch.Causes
		}
		if patch.Pain != nil {
			c.Pain = *patch.Pain
		}
		if patch.Zone != nil {
			c.Zone = *patch.Zone
		}
		if patch.Periodontal != nil {
			c.Periodontal = *patch.Periodontal
		}
		if patch.Chamber != nil {
			c.Chamber = *patch.Chamber
		}

		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}
		if patch.FailureCauses != nil {
			c.FailureCauses = patch.FailureCauses
			return s.repo.UpsertFailureCauses(ctx, id, patch.FailureCauses)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Exists reports whether an active chart has the given id. Satisfies the
// ledger domain's chart directory.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}
