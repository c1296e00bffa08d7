package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Repository = (*PostgresEmployeeRepo)(nil)

// ListFilter narrows the employee listing. Zero values mean no filter.
type ListFilter struct {
	CompanyID string
	ManagerID string
	Search    string
}

type Repository interface {
	// Create stores a new employee with a HASHED password.
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)
	List(ctx context.Context, filter ListFilter) ([]models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	// Update applies the non-nil fields only.
	Update(ctx context.Context, id string, fields UpdateFields) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
	CompanyExists(ctx context.Context, companyID string) (bool, error)
	ManagerExists(ctx context.Context, managerID string) (bool, error)
}

type UpdateFields struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	ManagerID   *string
	CompanyID   *string
	HeaderOne   *string
	HeaderTwo   *string
	Layout      *string
}

type PostgresEmployeeRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresEmployeeRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresEmployeeRepo {
	return &PostgresEmployeeRepo{logger: logger, pgpool: pgpool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func employeeQuery() sq.SelectBuilder {
	return psql.Select(
		"e.id", "e.name", "e.email", "e.phone_number", "e.company_id", "e.manager_id",
		"e.layout", "e.header_one", "e.header_two", "e.role", "e.created_at", "e.updated_at",
		"c.id", "c.name", "c.email",
		"m.id", "m.name", "m.email",
	).
		From("employees e").
		Join("companies c ON c.id = e.company_id").
		Join("managers m ON m.id = e.manager_id")
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	var company models.CompanyRef
	var manager models.ManagerRef
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PhoneNumber, &e.CompanyID, &e.ManagerID,
		&e.Layout, &e.HeaderOne, &e.HeaderTwo, &e.Role, &e.CreatedAt, &e.UpdatedAt,
		&company.ID, &company.Name, &company.Email,
		&manager.ID, &manager.Name, &manager.Email)
	if err != nil {
		return nil, err
	}
	e.Company = &company
	e.Manager = &manager
	return &e, nil
}

func (r *PostgresEmployeeRepo) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	var id string
	query := `INSERT INTO employees (name, email, phone_number, password_hash, company_id, manager_id, header_one, header_two)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.pgpool.QueryRow(ctx, query,
		e.Name, e.Email, e.PhoneNumber, e.PasswordHash, e.CompanyID, e.ManagerID, e.HeaderOne, e.HeaderTwo).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("employee with this email already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error inserting employee", slog.Any("error", err), slog.String("email", e.Email))
		return nil, fmt.Errorf("database error creating employee: %w", err)
	}
	return r.GetByID(ctx, id)
}

func listQuery(filter ListFilter) (string, []any, error) {
	builder := employeeQuery().OrderBy("e.created_at DESC")
	if filter.CompanyID != "" {
		builder = builder.Where(sq.Eq{"e.company_id": filter.CompanyID})
	}
	if filter.ManagerID != "" {
		builder = builder.Where(sq.Eq{"e.manager_id": filter.ManagerID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"e.name": pattern},
			sq.ILike{"e.email": pattern},
		})
	}
	return builder.ToSql()
}

func (r *PostgresEmployeeRepo) List(ctx context.Context, filter ListFilter) ([]models.Employee, error) {
	query, args, err := listQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("error building employee query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing employees", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("database error scanning employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing employees: %w", err)
	}
	return employees, nil
}

func (r *PostgresEmployeeRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query, args, err := employeeQuery().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building employee query: %w", err)
	}
	e, err := scanEmployee(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("employee not found with id %s: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching employee", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error fetching employee: %w", err)
	}
	return e, nil
}

func (r *PostgresEmployeeRepo) Update(ctx context.Context, id string, fields UpdateFields) (*models.Employee, error) {
	builder := psql.Update("employees").Where(sq.Eq{"id": id}).Set("updated_at", sq.Expr("NOW()"))
	if fields.Name != nil {
		builder = builder.Set("name", *fields.Name)
	}
	if fields.Email != nil {
		builder = builder.Set("email", *fields.Email)
	}
	if fields.PhoneNumber != nil {
		builder = builder.Set("phone_number", *fields.PhoneNumber)
	}
	if fields.ManagerID != nil {
		builder = builder.Set("manager_id", *fields.ManagerID)
	}
	if fields.CompanyID != nil {
		builder = builder.Set("company_id", *fields.CompanyID)
	}
	if fields.HeaderOne != nil {
		builder = builder.Set("header_one", *fields.HeaderOne)
	}
	if fields.HeaderTwo != nil {
		builder = builder.Set("header_two", *fields.HeaderTwo)
	}
	if fields.Layout != nil {
		builder = builder.Set("layout", *fields.Layout)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building employee update: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("email already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error updating employee", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error updating employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("employee not found with id %s: %w", id, models.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresEmployeeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting employee", slog.Any("error", err), slog.String("id", id))
		return fmt.Errorf("database error deleting employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee not found with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresEmployeeRepo) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`, companyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database error checking company: %w", err)
	}
	return exists, nil
}

func (r *PostgresEmployeeRepo) ManagerExists(ctx context.Context, managerID string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM managers WHERE id = $1)`, managerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database error checking manager: %w", err)
	}
	return exists, nil
}
