package companies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Repository = (*PostgresCompanyRepo)(nil)

// DB is the slice of pgxpool.Pool this repository needs. pgxmock
// satisfies it too, which keeps the query tests off a live database.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
	// Update applies the non-nil fields only.
	Update(ctx context.Context, id string, name, email, phoneNumber, address, label *string) (*models.Company, error)
	Delete(ctx context.Context, id string) error
}

type PostgresCompanyRepo struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresCompanyRepo(pgpool DB, logger *slog.Logger) *PostgresCompanyRepo {
	return &PostgresCompanyRepo{logger: logger, pgpool: pgpool}
}

const companyColumns = `id, name, email, phone_number, address, label, created_at, updated_at`

func scanCompany(row pgx.Row, c *models.Company) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Address, &c.Label, &c.CreatedAt, &c.UpdatedAt)
}

func (r *PostgresCompanyRepo) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	var created models.Company
	query := `INSERT INTO companies (name, email, phone_number, address, label)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + companyColumns
	row := r.pgpool.QueryRow(ctx, query,
		company.Name, company.Email, company.PhoneNumber, company.Address, company.Label)
	if err := scanCompany(row, &created); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("company with this name already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error inserting company", slog.Any("error", err), slog.String("name", company.Name))
		return nil, fmt.Errorf("database error creating company: %w", err)
	}
	return &created, nil
}

func (r *PostgresCompanyRepo) List(ctx context.Context) ([]models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC`
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing companies", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing companies: %w", err)
	}
	defer rows.Close()

	companies := make([]models.Company, 0)
	for rows.Next() {
		var c models.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("database error scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing companies: %w", err)
	}
	return companies, nil
}

func (r *PostgresCompanyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	if err := scanCompany(r.pgpool.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company not found with id %s: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching company", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error fetching company: %w", err)
	}
	return &c, nil
}

func (r *PostgresCompanyRepo) Update(ctx context.Context, id string, name, email, phoneNumber, address, label *string) (*models.Company, error) {
	var c models.Company
	query := `UPDATE companies SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone_number = COALESCE($4, phone_number),
			address = COALESCE($5, address),
			label = COALESCE($6, label),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + companyColumns
	row := r.pgpool.QueryRow(ctx, query, id, name, email, phoneNumber, address, label)
	if err := scanCompany(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company not found with id %s: %w", id, models.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("company with this name already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error updating company", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error updating company: %w", err)
	}
	return &c, nil
}

func (r *PostgresCompanyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: staff rows still reference the company.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("company still has staff assigned: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error deleting company", slog.Any("error", err), slog.String("id", id))
		return fmt.Errorf("database error deleting company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company not found with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}
