package dashboard

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

const (
	companiesCacheKey = "dashboard_companies"
	devicesCacheKey   = "dashboard_devices"
)

type Service interface {
	GetAllCompanies(ctx context.Context) ([]models.Company, error)
	GetAllDevices(ctx context.Context) ([]models.Device, error)
}

// ServiceImpl serves the manager dashboard listings behind a short
// in-process cache. Dashboards poll these endpoints; the data changes
// rarely.
type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewDashboardService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(30*time.Second, 5*time.Minute),
	}
}

func (s *ServiceImpl) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	if cached, found := s.cache.Get(companiesCacheKey); found {
		if companies, ok := cached.([]models.Company); ok {
			s.logger.Debug("Serving companies from cache")
			return companies, nil
		}
	}

	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(companiesCacheKey, companies, cache.DefaultExpiration)
	return companies, nil
}

func (s *ServiceImpl) GetAllDevices(ctx context.Context) ([]models.Device, error) {
	if cached, found := s.cache.Get(devicesCacheKey); found {
		if devices, ok := cached.([]models.Device); ok {
			s.logger.Debug("Serving devices from cache")
			return devices, nil
		}
	}

	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(devicesCacheKey, devices, cache.DefaultExpiration)
	return devices, nil
}
