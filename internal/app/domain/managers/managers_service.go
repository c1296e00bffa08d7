package managers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type CreateManagerInput struct {
	Name            string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	CompanyID       string
}

type Service interface {
	CreateManager(ctx context.Context, in CreateManagerInput) (*models.Manager, error)
	GetAllManagers(ctx context.Context) ([]models.Manager, error)
	GetManager(ctx context.Context, id string) (*models.Manager, error)
	UpdateManager(ctx context.Context, id string, name, email, phoneNumber, companyID *string) (*models.Manager, error)
	DeleteManager(ctx context.Context, id string) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewManagerService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) CreateManager(ctx context.Context, in CreateManagerInput) (*models.Manager, error) {
	l := s.logger.With(zap.String("method", "CreateManager"), zap.String("email", in.Email))

	if in.Name == "" || in.Email == "" || in.PhoneNumber == "" ||
		in.Password == "" || in.ConfirmPassword == "" || in.CompanyID == "" {
		return nil, fmt.Errorf("all fields are required: %w", models.ErrBadRequest)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", models.ErrBadRequest)
	}

	companyID, err := uuid.Parse(in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", models.ErrBadRequest)
	}
	exists, err := s.repo.CompanyExists(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("company not found: %w", models.ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("app error hashing password: %w", err)
	}

	manager, err := s.repo.Create(ctx, &models.Manager{
		Name:         in.Name,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
		CompanyID:    companyID,
		Role:         models.RoleManager,
	})
	if err != nil {
		return nil, err
	}
	l.Info("Manager created", zap.String("managerID", manager.ID.String()))
	return manager, nil
}

func (s *ServiceImpl) GetAllManagers(ctx context.Context) ([]models.Manager, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) GetManager(ctx context.Context, id string) (*models.Manager, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid manager id: %w", models.ErrBadRequest)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) UpdateManager(ctx context.Context, id string, name, email, phoneNumber, companyID *string) (*models.Manager, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid manager id: %w", models.ErrBadRequest)
	}
	if companyID != nil {
		if _, err := uuid.Parse(*companyID); err != nil {
			return nil, fmt.Errorf("invalid company id: %w", models.ErrBadRequest)
		}
		exists, err := s.repo.CompanyExists(ctx, *companyID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("company not found: %w", models.ErrNotFound)
		}
	}
	return s.repo.Update(ctx, id, name, email, phoneNumber, companyID)
}

func (s *ServiceImpl) DeleteManager(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid manager id: %w", models.ErrBadRequest)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
