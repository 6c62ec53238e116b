package message

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"

	"github.com/notifbox/notifbox/internal/model"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB, 30)

	return repo, mock
}

func TestCreate(t *testing.T) {
	repo, mock := setupMockDB(t)

	messageID := uuid.New()
	msg := model.Message{
		TransactionID:  "tx-1",
		OrganizationID: uuid.New(),
		EnvironmentID:  uuid.New(),
		SubscriberID:   uuid.New(),
		NotificationID: uuid.New(),
		TemplateID:     uuid.New(),
		StepID:         uuid.New(),
		JobID:          uuid.New(),
		Channel:        model.ChannelEmail,
		Recipient:      "user@example.com",
		ProviderID:     model.ProviderSMTP,
		Payload:        map[string]any{"key": "value"},
		Status:         "pending",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO messages (
		    transaction_id, organization_id, environment_id, subscriber_id,
		    notification_id, template_id, step_id, job_id,
		    channel, recipient, provider_id, payload, overrides, status, expire_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id;
    `)).
		WithArgs(
			msg.TransactionID, msg.OrganizationID, msg.EnvironmentID, msg.SubscriberID,
			msg.NotificationID, msg.TemplateID, msg.StepID, msg.JobID,
			msg.Channel, msg.Recipient, msg.ProviderID,
			sqlmock.AnyArg(), sqlmock.AnyArg(), msg.Status, sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(messageID))

	id, err := repo.Create(context.Background(), msg)
	assert.NoError(t, err)
	assert.Equal(t, messageID, id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContent(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE messages
		SET subject = $1, content = $2
		WHERE id = $3;
    `)).
		WithArgs("Hello", "<p>Hello</p>", id).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateContent(context.Background(), id, "Hello", "<p>Hello</p>")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE messages
		SET subject = $1, content = $2
		WHERE id = $3;
    `)).
		WithArgs("Hello", "<p>Hello</p>", id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateContent(context.Background(), id, "Hello", "<p>Hello</p>")
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProviderMessageID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE messages
		SET provider_message_id = $1, status = 'sent'
		WHERE id = $2;
    `)).
		WithArgs("prov-1", id).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SetProviderMessageID(context.Background(), id, "prov-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatusByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT status
		FROM messages
		WHERE id = $1;
    `)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("sent"))

	status, err := repo.GetStatusByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "sent", status)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT status
		FROM messages
		WHERE id = $1;
    `)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	status, err = repo.GetStatusByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.Equal(t, "", status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
