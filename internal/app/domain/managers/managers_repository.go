package managers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Repository = (*PostgresManagerRepo)(nil)

type Repository interface {
	// Create stores a new manager with a HASHED password.
	Create(ctx context.Context, m *models.Manager) (*models.Manager, error)
	List(ctx context.Context) ([]models.Manager, error)
	GetByID(ctx context.Context, id string) (*models.Manager, error)
	// Update applies the non-nil fields only.
	Update(ctx context.Context, id string, name, email, phoneNumber, companyID *string) (*models.Manager, error)
	Delete(ctx context.Context, id string) error
	CompanyExists(ctx context.Context, companyID string) (bool, error)
}

type PostgresManagerRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresManagerRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresManagerRepo {
	return &PostgresManagerRepo{logger: logger, pgpool: pgpool}
}

// managerSelect joins the owning company so listings carry its summary.
const managerSelect = `SELECT m.id, m.name, m.email, m.phone_number, m.company_id, m.role,
		m.created_at, m.updated_at, c.id, c.name, c.email
	FROM managers m
	JOIN companies c ON c.id = m.company_id`

func scanManager(row pgx.Row) (*models.Manager, error) {
	var m models.Manager
	var ref models.CompanyRef
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.PhoneNumber, &m.CompanyID, &m.Role,
		&m.CreatedAt, &m.UpdatedAt, &ref.ID, &ref.Name, &ref.Email)
	if err != nil {
		return nil, err
	}
	m.Company = &ref
	return &m, nil
}

func (r *PostgresManagerRepo) Create(ctx context.Context, m *models.Manager) (*models.Manager, error) {
	var id string
	query := `INSERT INTO managers (name, email, phone_number, password_hash, company_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.pgpool.QueryRow(ctx, query,
		m.Name, m.Email, m.PhoneNumber, m.PasswordHash, m.CompanyID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("manager with this email already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error inserting manager", slog.Any("error", err), slog.String("email", m.Email))
		return nil, fmt.Errorf("database error creating manager: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresManagerRepo) List(ctx context.Context) ([]models.Manager, error) {
	rows, err := r.pgpool.Query(ctx, managerSelect+` ORDER BY m.created_at DESC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing managers", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing managers: %w", err)
	}
	defer rows.Close()

	managers := make([]models.Manager, 0)
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, fmt.Errorf("database error scanning manager: %w", err)
		}
		managers = append(managers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing managers: %w", err)
	}
	return managers, nil
}

func (r *PostgresManagerRepo) GetByID(ctx context.Context, id string) (*models.Manager, error) {
	m, err := scanManager(r.pgpool.QueryRow(ctx, managerSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("manager not found with id %s: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching manager", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error fetching manager: %w", err)
	}
	return m, nil
}

func (r *PostgresManagerRepo) Update(ctx context.Context, id string, name, email, phoneNumber, companyID *string) (*models.Manager, error) {
	query := `UPDATE managers SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone_number = COALESCE($4, phone_number),
			company_id = COALESCE($5::uuid, company_id),
			updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pgpool.Exec(ctx, query, id, name, email, phoneNumber, companyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("email already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error updating manager", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error updating manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("manager not found with id %s: %w", id, models.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresManagerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM managers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("manager still has employees assigned: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error deleting manager", slog.Any("error", err), slog.String("id", id))
		return fmt.Errorf("database error deleting manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("manager not found with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresManagerRepo) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`, companyID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error checking company", slog.Any("error", err), slog.String("companyID", companyID))
		return false, fmt.Errorf("database error checking company: %w", err)
	}
	return exists, nil
}
