package companies

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

func newMockRepo(t *testing.T) (*PostgresCompanyRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresCompanyRepo(pool, logger), pool
}

func companyRow(id uuid.UUID, name string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "email", "phone_number", "address", "label", "created_at", "updated_at"}).
		AddRow(id, name, "ops@acme.example", "1234567890", "12 Mill Road", "plant-a", now, now)
}

func TestCreateReturnsInsertedCompany(t *testing.T) {
	repo, pool := newMockRepo(t)

	id := uuid.New()
	pool.ExpectQuery("INSERT INTO companies").
		WithArgs("Acme", "ops@acme.example", "1234567890", "12 Mill Road", "plant-a").
		WillReturnRows(companyRow(id, "Acme"))

	created, err := repo.Create(t.Context(), &models.Company{
		Name:        "Acme",
		Email:       "ops@acme.example",
		PhoneNumber: "1234567890",
		Address:     "12 Mill Road",
		Label:       "plant-a",
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolationToConflict(t *testing.T) {
	repo, pool := newMockRepo(t)

	pool.ExpectQuery("INSERT INTO companies").
		WithArgs("Acme", "ops@acme.example", "1234567890", "12 Mill Road", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(t.Context(), &models.Company{
		Name:        "Acme",
		Email:       "ops@acme.example",
		PhoneNumber: "1234567890",
		Address:     "12 Mill Road",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGetByIDMapsNoRowsToNotFound(t *testing.T) {
	repo, pool := newMockRepo(t)

	id := uuid.New().String()
	// An empty row set surfaces as pgx.ErrNoRows on Scan.
	pool.ExpectQuery("SELECT (.+) FROM companies WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone_number", "address", "label", "created_at", "updated_at"}))

	_, err := repo.GetByID(t.Context(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListScansAllRows(t *testing.T) {
	repo, pool := newMockRepo(t)

	rows := companyRow(uuid.New(), "Acme")
	now := time.Now()
	rows.AddRow(uuid.New(), "Globex", "it@globex.example", "0987654321", "1 High St", "", now, now)
	pool.ExpectQuery("SELECT (.+) FROM companies ORDER BY created_at DESC").
		WillReturnRows(rows)

	companies, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, companies, 2)
	assert.Equal(t, "Globex", companies[1].Name)
}

func TestDeleteReportsMissingCompany(t *testing.T) {
	repo, pool := newMockRepo(t)

	id := uuid.New().String()
	pool.ExpectExec("DELETE FROM companies").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(t.Context(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteMapsForeignKeyToConflict(t *testing.T) {
	repo, pool := newMockRepo(t)

	id := uuid.New().String()
	pool.ExpectExec("DELETE FROM companies").
		WithArgs(id).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete(t.Context(), id)
	assert.ErrorIs(t, err, models.ErrConflict)
}
