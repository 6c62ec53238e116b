package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/notifbox/notifbox/internal/model"
)

// Repository provides append-only access to the execution_details table.
// Entries are never updated or deleted here; a retention reaper outside the
// service removes expired rows.
type Repository struct {
	db            *dbpg.DB
	retentionDays int
}

// NewRepository creates a new execution detail repository.
func NewRepository(db *dbpg.DB, retentionDays int) *Repository {
	return &Repository{db: db, retentionDays: retentionDays}
}

// Create appends one execution detail and returns its ID.
func (r *Repository) Create(ctx context.Context, d model.ExecutionDetail) (uuid.UUID, error) {
	now := time.Now().UTC()
	expireAt := now.AddDate(0, 0, r.retentionDays)

	var messageID any
	if d.MessageID != uuid.Nil {
		messageID = d.MessageID
	}

	query := `
		INSERT INTO execution_details (
		    message_id, job_id, detail_kind, source, status, is_test, is_retry, raw, expire_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
    `

	err := r.db.QueryRowContext(
		ctx, query,
		messageID, d.JobID, d.Kind, d.Source, d.Status, d.IsTest, d.IsRetry, d.Raw, expireAt,
	).Scan(&d.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create execution detail: %w", err)
	}

	return d.ID, nil
}

// ListByJobID retrieves the audit trail of one job in insertion order.
func (r *Repository) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]model.ExecutionDetail, error) {
	query := `
		SELECT id, message_id, job_id, detail_kind, source, status, is_test, is_retry, raw, created_at
		FROM execution_details
		WHERE job_id = $1
		ORDER BY created_at ASC, id ASC;
    `

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list execution details: %w", err)
	}
	defer rows.Close()

	var details []model.ExecutionDetail
	for rows.Next() {
		var d model.ExecutionDetail
		var messageID uuid.NullUUID
		if err := rows.Scan(&d.ID, &messageID, &d.JobID, &d.Kind, &d.Source, &d.Status, &d.IsTest, &d.IsRetry, &d.Raw, &d.CreatedAt); err != nil {
			return nil, err
		}

		if messageID.Valid {
			d.MessageID = messageID.UUID
		}

		details = append(details, d)
	}

	return details, rows.Err()
}
