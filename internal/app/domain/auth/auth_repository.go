package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// GetUserByEmail fetches the user including the password hash.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	// CreateUser stores a new user with a HASHED password.
	CreateUser(ctx context.Context, name, email, hashedPassword, role string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser applies the non-nil fields only.
	UpdateUser(ctx context.Context, userID string, name, email, role *string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// FindPrincipalByID resolves a session principal against every table a
	// login can originate from: users, managers, supervisors, employees.
	FindPrincipalByID(ctx context.Context, id string) (*models.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by email", slog.Any("error", err), slog.String("email", email))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE id = $1`
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with ID %s not found: %w", userID, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by ID", slog.Any("error", err), slog.String("userID", userID))
		return nil, fmt.Errorf("database error fetching user by ID: %w", err)
	}
	return &user, nil
}

// CreateUser implements auth.AuthRepo. Expects a HASHED password.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, name, email, hashedPassword, role string) (*models.User, error) {
	tracer := otel.Tracer("admin-api")
	ctx, span := tracer.Start(ctx, "PostgresAuthRepo.CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.statement", "INSERT INTO users ..."),
	))
	defer span.End()

	var user models.User
	query := `INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, role, created_at, updated_at`
	err := r.pgpool.QueryRow(ctx, query, name, email, hashedPassword, role).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("user already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error inserting user", slog.Any("error", err), slog.String("email", email))
		return nil, fmt.Errorf("database error registering user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	r.logger.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	return &user, nil
}

func (r *PostgresAuthRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email, role, created_at, updated_at FROM users ORDER BY created_at`
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing users", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing users: %w", err)
	}
	return users, nil
}

func (r *PostgresAuthRepo) UpdateUser(ctx context.Context, userID string, name, email, role *string) (*models.User, error) {
	var user models.User
	query := `UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			role = COALESCE($4, role),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, role, created_at, updated_at`
	err := r.pgpool.QueryRow(ctx, query, userID, name, email, role).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with ID %s not found: %w", userID, models.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("email already in use: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error updating user", slog.Any("error", err), slog.String("userID", userID))
		return nil, fmt.Errorf("database error updating user: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) DeleteUser(ctx context.Context, userID string) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting user", slog.Any("error", err), slog.String("userID", userID))
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user with ID %s not found: %w", userID, models.ErrNotFound)
	}
	return nil
}

// principalQueries is ordered: admins first, then the staff hierarchy.
var principalQueries = []struct {
	role  string
	query string
}{
	{"user", `SELECT id, name, email, role FROM users WHERE id = $1`},
	{"manager", `SELECT id, name, email, role FROM managers WHERE id = $1`},
	{"supervisor", `SELECT id, name, email, role FROM supervisors WHERE id = $1`},
	{"employee", `SELECT id, name, email, role FROM employees WHERE id = $1`},
}

func (r *PostgresAuthRepo) FindPrincipalByID(ctx context.Context, id string) (*models.User, error) {
	for _, pq := range principalQueries {
		var user models.User
		err := r.pgpool.QueryRow(ctx, pq.query, id).Scan(&user.ID, &user.Name, &user.Email, &user.Role)
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.ErrorContext(ctx, "Error resolving session principal",
				slog.Any("error", err), slog.String("id", id), slog.String("table", pq.role))
			return nil, fmt.Errorf("database error resolving principal: %w", err)
		}
	}
	return nil, fmt.Errorf("principal %s not found: %w", id, models.ErrNotFound)
}
