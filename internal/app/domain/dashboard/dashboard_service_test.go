package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *MockDashboardRepo) ListDevices(ctx context.Context) ([]models.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Device), args.Error(1)
}

func TestGetAllCompaniesHitsRepositoryOnce(t *testing.T) {
	repo := &MockDashboardRepo{}
	svc := NewDashboardService(repo, zap.NewNop())

	companies := []models.Company{{ID: uuid.New(), Name: "Acme"}}
	repo.On("ListCompanies", mock.Anything).Return(companies, nil).Once()

	first, err := svc.GetAllCompanies(t.Context())
	require.NoError(t, err)
	second, err := svc.GetAllCompanies(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "ListCompanies", 1)
}

func TestGetAllDevicesDoesNotCacheErrors(t *testing.T) {
	repo := &MockDashboardRepo{}
	svc := NewDashboardService(repo, zap.NewNop())

	repo.On("ListDevices", mock.Anything).Return(nil, assert.AnError).Once()
	repo.On("ListDevices", mock.Anything).Return([]models.Device{{Device: "plc-7"}}, nil).Once()

	_, err := svc.GetAllDevices(t.Context())
	require.Error(t, err)

	devices, err := svc.GetAllDevices(t.Context())
	require.NoError(t, err)
	assert.Len(t, devices, 1)
	repo.AssertNumberOfCalls(t, "ListDevices", 2)
}
