package employees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

type MockEmployeeRepo struct {
	mock.Mock
}

func (m *MockEmployeeRepo) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) List(ctx context.Context, filter ListFilter) ([]models.Employee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) Update(ctx context.Context, id string, fields UpdateFields) (*models.Employee, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmployeeRepo) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	args := m.Called(ctx, companyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeRepo) ManagerExists(ctx context.Context, managerID string) (bool, error) {
	args := m.Called(ctx, managerID)
	return args.Bool(0), args.Error(1)
}

func validInput(companyID, managerID string) CreateEmployeeInput {
	return CreateEmployeeInput{
		Name:            "Lena Ortiz",
		Email:           "lena@acme.example",
		PhoneNumber:     "1234567890",
		Password:        "s3cret",
		ConfirmPassword: "s3cret",
		CompanyID:       companyID,
		ManagerID:       managerID,
		HeaderOne:       "Temperature",
		HeaderTwo:       "Pressure",
	}
}

func TestCreateEmployeeHashesPasswordAndSetsRole(t *testing.T) {
	repo := &MockEmployeeRepo{}
	svc := NewEmployeeService(repo, zap.NewNop())

	companyID, managerID := uuid.New(), uuid.New()
	repo.On("CompanyExists", mock.Anything, companyID.String()).Return(true, nil)
	repo.On("ManagerExists", mock.Anything, managerID.String()).Return(true, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.Employee) bool {
		return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("s3cret")) == nil &&
			e.Role == models.RoleEmployee
	})).Return(&models.Employee{ID: uuid.New(), Name: "Lena Ortiz"}, nil)

	emp, err := svc.CreateEmployee(t.Context(), validInput(companyID.String(), managerID.String()))
	require.NoError(t, err)
	assert.Equal(t, "Lena Ortiz", emp.Name)
	repo.AssertExpectations(t)
}

func TestCreateEmployeeRejectsPasswordMismatch(t *testing.T) {
	svc := NewEmployeeService(&MockEmployeeRepo{}, zap.NewNop())

	in := validInput(uuid.New().String(), uuid.New().String())
	in.ConfirmPassword = "other"
	_, err := svc.CreateEmployee(t.Context(), in)
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestCreateEmployeeRequiresExistingManager(t *testing.T) {
	repo := &MockEmployeeRepo{}
	svc := NewEmployeeService(repo, zap.NewNop())

	companyID, managerID := uuid.New().String(), uuid.New().String()
	repo.On("CompanyExists", mock.Anything, companyID).Return(true, nil)
	repo.On("ManagerExists", mock.Anything, managerID).Return(false, nil)

	_, err := svc.CreateEmployee(t.Context(), validInput(companyID, managerID))
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetAllEmployeesValidatesFilterIDs(t *testing.T) {
	svc := NewEmployeeService(&MockEmployeeRepo{}, zap.NewNop())

	_, err := svc.GetAllEmployees(t.Context(), ListFilter{CompanyID: "not-a-uuid"})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestGetAllEmployeesPassesFilterThrough(t *testing.T) {
	repo := &MockEmployeeRepo{}
	svc := NewEmployeeService(repo, zap.NewNop())

	filter := ListFilter{CompanyID: uuid.New().String(), Search: "lena"}
	repo.On("List", mock.Anything, filter).Return([]models.Employee{{Name: "Lena Ortiz"}}, nil)

	employees, err := svc.GetAllEmployees(t.Context(), filter)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	repo.AssertExpectations(t)
}

func TestUpdateEmployeeChecksReassignedManager(t *testing.T) {
	repo := &MockEmployeeRepo{}
	svc := NewEmployeeService(repo, zap.NewNop())

	managerID := uuid.New().String()
	repo.On("ManagerExists", mock.Anything, managerID).Return(false, nil)

	_, err := svc.UpdateEmployee(t.Context(), uuid.New().String(), UpdateFields{ManagerID: &managerID})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
