package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Repository = (*PostgresDashboardRepo)(nil)

type Repository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListDevices(ctx context.Context) ([]models.Device, error)
}

type PostgresDashboardRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresDashboardRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresDashboardRepo {
	return &PostgresDashboardRepo{logger: logger, pgpool: pgpool}
}

func (r *PostgresDashboardRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, name, email, phone_number, address, label, created_at, updated_at
		FROM companies ORDER BY created_at DESC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing companies", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing companies: %w", err)
	}
	defer rows.Close()

	companies := make([]models.Company, 0)
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Address, &c.Label,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing companies: %w", err)
	}
	return companies, nil
}

func (r *PostgresDashboardRepo) ListDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, device, created_at, updated_at FROM devices ORDER BY created_at DESC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing devices", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing devices: %w", err)
	}
	defer rows.Close()

	devices := make([]models.Device, 0)
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.Device, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing devices: %w", err)
	}
	return devices, nil
}
