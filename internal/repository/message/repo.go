package message

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/notifbox/notifbox/internal/model"
)

var ErrMessageNotFound = errors.New("message not found")

// Repository provides methods to interact with the messages table.
type Repository struct {
	db            *dbpg.DB
	retentionDays int
}

// NewRepository creates a new message repository. Rows created through it
// expire retentionDays after creation.
func NewRepository(db *dbpg.DB, retentionDays int) *Repository {
	return &Repository{db: db, retentionDays: retentionDays}
}

// Create inserts a new message record and returns its ID. The record is
// stamped with an expiry derived from the retention period.
func (r *Repository) Create(ctx context.Context, msg model.Message) (uuid.UUID, error) {
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	overrides, err := json.Marshal(msg.Overrides)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal overrides: %w", err)
	}

	now := time.Now().UTC()
	expireAt := now.AddDate(0, 0, r.retentionDays)

	query := `
		INSERT INTO messages (
		    transaction_id, organization_id, environment_id, subscriber_id,
		    notification_id, template_id, step_id, job_id,
		    channel, recipient, provider_id, payload, overrides, status, expire_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id;
    `

	err = r.db.QueryRowContext(
		ctx, query,
		msg.TransactionID, msg.OrganizationID, msg.EnvironmentID, msg.SubscriberID,
		msg.NotificationID, msg.TemplateID, msg.StepID, msg.JobID,
		msg.Channel, msg.Recipient, msg.ProviderID, payload, overrides, msg.Status, expireAt,
	).Scan(&msg.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create message: %w", err)
	}

	return msg.ID, nil
}

// UpdateContent stores the compiled subject and body on an existing record.
func (r *Repository) UpdateContent(ctx context.Context, id uuid.UUID, subject, content string) error {
	query := `
		UPDATE messages
		SET subject = $1, content = $2
		WHERE id = $3;
    `

	res, err := r.db.ExecContext(ctx, query, subject, content, id)
	if err != nil {
		return fmt.Errorf("failed to update message content: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// SetProviderMessageID writes back the identifier the provider assigned
// after a successful dispatch.
func (r *Repository) SetProviderMessageID(ctx context.Context, id uuid.UUID, providerMessageID string) error {
	query := `
		UPDATE messages
		SET provider_message_id = $1, status = 'sent'
		WHERE id = $2;
    `

	res, err := r.db.ExecContext(ctx, query, providerMessageID, id)
	if err != nil {
		return fmt.Errorf("failed to set provider message id: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// GetStatusByID retrieves the delivery status of a message by its ID.
func (r *Repository) GetStatusByID(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT status
		FROM messages
		WHERE id = $1;
    `

	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMessageNotFound
		}

		return "", fmt.Errorf("failed to get message status: %w", err)
	}

	return status, nil
}
