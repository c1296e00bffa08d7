package auth

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

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, name, email, hashedPassword, role string) (*models.User, error) {
	args := m.Called(ctx, name, email, hashedPassword, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockAuthRepo) UpdateUser(ctx context.Context, userID string, name, email, role *string) (*models.User, error) {
	args := m.Called(ctx, userID, name, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthRepo) FindPrincipalByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(repo AuthRepo) *AuthServiceImpl {
	return NewAuthService(repo, zap.NewNop())
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	repo.On("CreateUser", mock.Anything, "Asha Rao", "asha@example.com", mock.AnythingOfType("string"), models.RoleEmployee).
		Run(func(args mock.Arguments) {
			hashed := args.String(3)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret")))
		}).
		Return(&models.User{ID: uuid.New(), Name: "Asha Rao", Email: "asha@example.com", Role: models.RoleEmployee}, nil)

	user, err := svc.Register(t.Context(), "Asha Rao", "asha@example.com", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)
	repo.AssertExpectations(t)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := newTestService(&MockAuthRepo{})

	_, err := svc.Register(t.Context(), "", "asha@example.com", "s3cret", "")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestRegisterPropagatesDuplicateEmail(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	repo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, models.ErrConflict)

	_, err := svc.Register(t.Context(), "Asha Rao", "asha@example.com", "s3cret", "manager")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetUserByEmail", mock.Anything, "asha@example.com").
		Return(&models.User{ID: uuid.New(), Email: "asha@example.com", PasswordHash: string(hash), Role: models.RoleManager}, nil)

	user, err := svc.Login(t.Context(), "asha@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetUserByEmail", mock.Anything, "asha@example.com").
		Return(&models.User{ID: uuid.New(), PasswordHash: string(hash)}, nil)

	_, err = svc.Login(t.Context(), "asha@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLoginDoesNotRevealUnknownAccounts(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, models.ErrNotFound)

	_, err := svc.Login(t.Context(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	svc := newTestService(&MockAuthRepo{})

	_, err := svc.Login(t.Context(), "", "")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestDeleteUserRefusesSelfDeletion(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	id := uuid.New().String()
	err := svc.DeleteUser(t.Context(), id, id)
	assert.ErrorIs(t, err, models.ErrBadRequest)
	repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteUserRemovesOtherAccounts(t *testing.T) {
	repo := &MockAuthRepo{}
	svc := newTestService(repo)

	target := uuid.New().String()
	repo.On("GetUserByID", mock.Anything, target).
		Return(&models.User{Role: models.RoleEmployee}, nil)
	repo.On("DeleteUser", mock.Anything, target).Return(nil)

	err := svc.DeleteUser(t.Context(), target, uuid.New().String())
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
