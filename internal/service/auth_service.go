package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"forms-api/internal/domain"
	"forms-api/internal/repository"
)

var (
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
	ErrEmailTaken         = errors.New("email already registered")
)

const minPasswordLength = 8

// AuthService coordina registro y login de autores de formularios.
type AuthService struct {
	logger *zap.Logger
	owners repository.OwnerRepository
}

func NewAuthService(logger *zap.Logger, owners repository.OwnerRepository) *AuthService {
	return &AuthService{
		logger: logger,
		owners: owners,
	}
}

type RegisterOwnerInput struct {
	Email       string
	DisplayName string
	Password    string
}

func (s *AuthService) RegisterOwner(ctx context.Context, input RegisterOwnerInput) (domain.Owner, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.Owner{}, ErrInvalidEmail
	}
	password := strings.TrimSpace(input.Password)
	if len(password) < minPasswordLength {
		return domain.Owner{}, ErrWeakPassword
	}

	if _, err := s.owners.GetByEmail(ctx, emailAddr); err == nil {
		return domain.Owner{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Owner{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Owner{}, err
	}

	owner := domain.Owner{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.owners.Create(ctx, owner); err != nil {
		return domain.Owner{}, err
	}

	return owner, nil
}

func (s *AuthService) Authenticate(ctx context.Context, emailAddr, password string) (domain.Owner, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.Owner{}, ErrInvalidCredentials
	}

	owner, err := s.owners.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Owner{}, ErrInvalidCredentials
		}
		return domain.Owner{}, err
	}
	if owner.PasswordHash == "" {
		return domain.Owner{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return domain.Owner{}, ErrInvalidCredentials
	}
	return owner, nil
}

func (s *AuthService) GetOwner(ctx context.Context, id string) (domain.Owner, error) {
	owner, err := s.owners.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Owner{}, ErrOwnerNotFound
		}
		return domain.Owner{}, err
	}
	return owner, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
