package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for accounts and sessions.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID string, name, email, role *string) (*models.User, error)
	// DeleteUser refuses to delete the acting principal's own account.
	DeleteUser(ctx context.Context, userID, actorID string) error

	HashPassword(password string) (string, error)
}

type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
}

func NewAuthService(repo AuthRepo, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo}
}

func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))

	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("please provide name, email and password: %w", models.ErrBadRequest)
	}
	if role == "" {
		role = models.RoleEmployee
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("app error hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, name, email, hashed, role)
	if err != nil {
		return nil, err
	}
	l.Info("Registration successful", zap.String("userID", user.ID.String()))
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))

	if email == "" || password == "" {
		return nil, fmt.Errorf("please provide email and password: %w", models.ErrBadRequest)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		l.Warn("GetUserByEmail failed")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	l.Info("Login successful", zap.String("userID", user.ID.String()))
	return user, nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ForgotPassword only verifies the account today. Reset tokens and mail
// delivery sit behind it once an SMTP relay is provisioned.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("please provide an email: %w", models.ErrBadRequest)
	}
	if _, err := s.repo.GetUserByEmail(ctx, email); err != nil {
		return err
	}
	return nil
}

func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *AuthServiceImpl) UpdateUser(ctx context.Context, userID string, name, email, role *string) (*models.User, error) {
	return s.repo.UpdateUser(ctx, userID, name, email, role)
}

func (s *AuthServiceImpl) DeleteUser(ctx context.Context, userID, actorID string) error {
	if userID == actorID {
		return fmt.Errorf("cannot delete your own account: %w", models.ErrBadRequest)
	}
	// Confirm existence first so a bad ID surfaces as 404, not 200.
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.DeleteUser(ctx, userID)
}

func (s *AuthServiceImpl) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
