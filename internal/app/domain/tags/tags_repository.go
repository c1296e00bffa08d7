package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Repository = (*PostgresTagRepo)(nil)

type Repository interface {
	// CreateTag registers the device and the topic together, or neither.
	CreateTag(ctx context.Context, device, topic, label string) (*models.Device, *models.Topic, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetTopic(ctx context.Context, id string) (*models.Topic, error)
	// UpdateTopic applies the non-nil fields only.
	UpdateTopic(ctx context.Context, id string, topic, label *string) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id string) error

	EmployeeName(ctx context.Context, employeeID string) (string, error)
	// TopicsByIDs returns the topics found; missing IDs are simply absent.
	TopicsByIDs(ctx context.Context, ids []string) ([]models.Topic, error)
	// AssignTopics replaces nothing: it adds the given topics to the
	// employee's set, ignoring ones already assigned.
	AssignTopics(ctx context.Context, employeeID string, topicIDs []string) error
}

type PostgresTagRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresTagRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresTagRepo {
	return &PostgresTagRepo{logger: logger, pgpool: pgpool}
}

func (r *PostgresTagRepo) CreateTag(ctx context.Context, device, topic, label string) (*models.Device, *models.Topic, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("database error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var deviceExists, topicExists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM devices WHERE device = $1),
			EXISTS (SELECT 1 FROM topics WHERE topic = $2 AND label = $3)`,
		device, topic, label).Scan(&deviceExists, &topicExists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error checking tag uniqueness", slog.Any("error", err))
		return nil, nil, fmt.Errorf("database error checking tag: %w", err)
	}
	if deviceExists {
		return nil, nil, fmt.Errorf("device already exists: %w", models.ErrConflict)
	}
	if topicExists {
		return nil, nil, fmt.Errorf("topic already exists: %w", models.ErrConflict)
	}

	var d models.Device
	err = tx.QueryRow(ctx,
		`INSERT INTO devices (device) VALUES ($1) RETURNING id, device, created_at, updated_at`,
		device).Scan(&d.ID, &d.Device, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting device", slog.Any("error", err), slog.String("device", device))
		return nil, nil, fmt.Errorf("database error creating device: %w", err)
	}

	var tp models.Topic
	err = tx.QueryRow(ctx,
		`INSERT INTO topics (topic, label) VALUES ($1, $2) RETURNING id, topic, label, created_at, updated_at`,
		topic, label).Scan(&tp.ID, &tp.Topic, &tp.Label, &tp.CreatedAt, &tp.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting topic", slog.Any("error", err), slog.String("topic", topic))
		return nil, nil, fmt.Errorf("database error creating topic: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("database error committing tag: %w", err)
	}
	return &d, &tp, nil
}

func (r *PostgresTagRepo) ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, topic, label, created_at, updated_at FROM topics ORDER BY created_at DESC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing topics", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing topics: %w", err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var tp models.Topic
		if err := rows.Scan(&tp.ID, &tp.Topic, &tp.Label, &tp.CreatedAt, &tp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning topic: %w", err)
		}
		topics = append(topics, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing topics: %w", err)
	}
	return topics, nil
}

func (r *PostgresTagRepo) ListDevices(ctx context.Context) ([]models.Device, error) {
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

func (r *PostgresTagRepo) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	var tp models.Topic
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, topic, label, created_at, updated_at FROM topics WHERE id = $1`, id).
		Scan(&tp.ID, &tp.Topic, &tp.Label, &tp.CreatedAt, &tp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tag not found with id %s: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching topic", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error fetching tag: %w", err)
	}
	return &tp, nil
}

func (r *PostgresTagRepo) UpdateTopic(ctx context.Context, id string, topic, label *string) (*models.Topic, error) {
	var tp models.Topic
	err := r.pgpool.QueryRow(ctx,
		`UPDATE topics SET
			topic = COALESCE($2, topic),
			label = COALESCE($3, label),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, topic, label, created_at, updated_at`, id, topic, label).
		Scan(&tp.ID, &tp.Topic, &tp.Label, &tp.CreatedAt, &tp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tag not found with id %s: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error updating topic", slog.Any("error", err), slog.String("id", id))
		return nil, fmt.Errorf("database error updating tag: %w", err)
	}
	return &tp, nil
}

func (r *PostgresTagRepo) DeleteTopic(ctx context.Context, id string) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting topic", slog.Any("error", err), slog.String("id", id))
		return fmt.Errorf("database error deleting tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tag not found with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresTagRepo) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	var name string
	err := r.pgpool.QueryRow(ctx, `SELECT name FROM employees WHERE id = $1`, employeeID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("employee not found with id %s: %w", employeeID, models.ErrNotFound)
		}
		return "", fmt.Errorf("database error fetching employee: %w", err)
	}
	return name, nil
}

func (r *PostgresTagRepo) TopicsByIDs(ctx context.Context, ids []string) ([]models.Topic, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, topic, label, created_at, updated_at FROM topics WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching topics by ids", slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching topics: %w", err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0, len(ids))
	for rows.Next() {
		var tp models.Topic
		if err := rows.Scan(&tp.ID, &tp.Topic, &tp.Label, &tp.CreatedAt, &tp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning topic: %w", err)
		}
		topics = append(topics, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error fetching topics: %w", err)
	}
	return topics, nil
}

func (r *PostgresTagRepo) AssignTopics(ctx context.Context, employeeID string, topicIDs []string) error {
	batch := &pgx.Batch{}
	for _, topicID := range topicIDs {
		batch.Queue(
			`INSERT INTO employee_topics (employee_id, topic_id) VALUES ($1, $2)
			ON CONFLICT (employee_id, topic_id) DO NOTHING`,
			employeeID, topicID)
	}
	results := r.pgpool.SendBatch(ctx, batch)
	defer results.Close()

	for range topicIDs {
		if _, err := results.Exec(); err != nil {
			r.logger.ErrorContext(ctx, "Error assigning topics",
				slog.Any("error", err), slog.String("employeeID", employeeID))
			return fmt.Errorf("database error assigning topics: %w", err)
		}
	}
	return nil
}
