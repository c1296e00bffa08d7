package companies

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetAllCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	UpdateCompany(ctx context.Context, id string, name, email, phoneNumber, address, label *string) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewCompanyService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	ctx, span := otel.Tracer("CompanyService").Start(ctx, "CreateCompany")
	defer span.End()

	if company.Name == "" || company.Email == "" || company.PhoneNumber == "" || company.Address == "" {
		return nil, fmt.Errorf("all fields are required: %w", models.ErrBadRequest)
	}

	created, err := s.repo.Create(ctx, company)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, err
	}
	s.logger.Info("Company created",
		zap.String("companyID", created.ID.String()), zap.String("name", created.Name))
	return created, nil
}

func (s *ServiceImpl) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	ctx, span := otel.Tracer("CompanyService").Start(ctx, "GetAllCompanies")
	defer span.End()

	companies, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("companies.count", len(companies)))
	return companies, nil
}

func (s *ServiceImpl) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) UpdateCompany(ctx context.Context, id string, name, email, phoneNumber, address, label *string) (*models.Company, error) {
	return s.repo.Update(ctx, id, name, email, phoneNumber, address, label)
}

func (s *ServiceImpl) DeleteCompany(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
