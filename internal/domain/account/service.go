package account

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/odontia/clinic/internal/platform/auth"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("role must be admin or dentist")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is inactive")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const bcryptCost = 10

// AuthResult pairs a user with a freshly issued token.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// RegisterInput carries a new account. Role defaults to dentist.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type Service struct {
	repo   Repository
	tokens *auth.TokenIssuer
}

func NewService(repo Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if !emailRe.MatchString(in.Email) {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if in.Role == "" {
		in.Role = RoleDentist
	}
	if in.Role != RoleAdmin && in.Role != RoleDentist {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID.String(), u.Name, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrInactiveUser
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.String(), u.Name, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

// Verify checks a token and confirms the subject still exists and is
// active, so revoking an account invalidates outstanding tokens.
func (s *Service) Verify(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrInactiveUser
	}
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !u.Active {
		return ErrInactiveUser
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, u.ID, string(hash))
}
