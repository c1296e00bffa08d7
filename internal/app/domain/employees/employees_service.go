package employees

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type CreateEmployeeInput struct {
	Name            string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	CompanyID       string
	ManagerID       string
	HeaderOne       string
	HeaderTwo       string
}

type Service interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*models.Employee, error)
	GetAllEmployees(ctx context.Context, filter ListFilter) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, fields UpdateFields) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewEmployeeService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*models.Employee, error) {
	l := s.logger.With(zap.String("method", "CreateEmployee"), zap.String("email", in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" || in.CompanyID == "" || in.ManagerID == "" {
		return nil, fmt.Errorf("name, email, password, company and manager are required: %w", models.ErrBadRequest)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("password and confirm password do not match: %w", models.ErrBadRequest)
	}

	companyID, err := uuid.Parse(in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", models.ErrBadRequest)
	}
	managerID, err := uuid.Parse(in.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("invalid manager id: %w", models.ErrBadRequest)
	}

	companyOK, err := s.repo.CompanyExists(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if !companyOK {
		return nil, fmt.Errorf("company not found: %w", models.ErrNotFound)
	}
	managerOK, err := s.repo.ManagerExists(ctx, in.ManagerID)
	if err != nil {
		return nil, err
	}
	if !managerOK {
		return nil, fmt.Errorf("manager not found: %w", models.ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("app error hashing password: %w", err)
	}

	employee, err := s.repo.Create(ctx, &models.Employee{
		Name:         in.Name,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
		CompanyID:    companyID,
		ManagerID:    managerID,
		HeaderOne:    in.HeaderOne,
		HeaderTwo:    in.HeaderTwo,
		Role:         models.RoleEmployee,
	})
	if err != nil {
		return nil, err
	}
	l.Info("Employee created", zap.String("employeeID", employee.ID.String()))
	return employee, nil
}

func (s *ServiceImpl) GetAllEmployees(ctx context.Context, filter ListFilter) ([]models.Employee, error) {
	if filter.CompanyID != "" {
		if _, err := uuid.Parse(filter.CompanyID); err != nil {
			return nil, fmt.Errorf("invalid company filter: %w", models.ErrBadRequest)
		}
	}
	if filter.ManagerID != "" {
		if _, err := uuid.Parse(filter.ManagerID); err != nil {
			return nil, fmt.Errorf("invalid manager filter: %w", models.ErrBadRequest)
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *ServiceImpl) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", models.ErrBadRequest)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) UpdateEmployee(ctx context.Context, id string, fields UpdateFields) (*models.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", models.ErrBadRequest)
	}
	if fields.CompanyID != nil {
		if _, err := uuid.Parse(*fields.CompanyID); err != nil {
			return nil, fmt.Errorf("invalid company id: %w", models.ErrBadRequest)
		}
		ok, err := s.repo.CompanyExists(ctx, *fields.CompanyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("company not found: %w", models.ErrNotFound)
		}
	}
	if fields.ManagerID != nil {
		if _, err := uuid.Parse(*fields.ManagerID); err != nil {
			return nil, fmt.Errorf("invalid manager id: %w", models.ErrBadRequest)
		}
		ok, err := s.repo.ManagerExists(ctx, *fields.ManagerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("manager not found: %w", models.ErrNotFound)
		}
	}
	return s.repo.Update(ctx, id, fields)
}

func (s *ServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid employee id: %w", models.ErrBadRequest)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
