package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("patient not found")
	ErrDuplicateRecord = errors.New("record number already in use")
	ErrInvalidRecord   = errors.New("record number must match HC-NNN")
	ErrNameRequired    = errors.New("first and last name are required")
	ErrInvalidAge      = errors.New("age must be between 0 and 120")
	ErrNoChanges       = errors.New("no fields to update")
)

// CreateInput carries a new patient registration.
type CreateInput struct {
	RecordNumber string
	FirstName    string
	LastName     string
	Age          *int
	Address      *string
	Phone        *string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func validAge(age *int) bool {
	return age == nil || (*age >= 0 && *age <= 120)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	in.RecordNumber = strings.TrimSpace(in.RecordNumber)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if !ValidRecordNumber(in.RecordNumber) {
		return nil, ErrInvalidRecord
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, ErrNameRequired
	}
	if !validAge(in.Age) {
		return nil, ErrInvalidAge
	}

	if _, err := s.repo.GetByRecordNumber(ctx, in.RecordNumber); err == nil {
		return nil, ErrDuplicateRecord
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p := &Patient{
		RecordNumber: in.RecordNumber,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Age:          in.Age,
		Address:      in.Address,
		Phone:        in.Phone,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByRecordNumber(ctx context.Context, rn string) (*Patient, error) {
	return s.repo.GetByRecordNumber(ctx, rn)
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error) {
	if patch.IsEmpty() {
		return nil, ErrNoChanges
	}
	if !validAge(patch.Age) {
		return nil, ErrInvalidAge
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return nil, ErrNameRequired
		}
		p.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return nil, ErrNameRequired
		}
		p.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.Address != nil {
		p.Address = patch.Address
	}
	if patch.Phone != nil {
		p.Phone = patch.Phone
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Exists reports whether an active patient has the given id. Satisfies the
// directory interfaces of the scheduling and chart domains.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}
