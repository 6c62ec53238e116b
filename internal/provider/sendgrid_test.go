package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifbox/notifbox/internal/model"
)

func newTestHandler(url string) *SendgridHandler {
	h := NewSendgridHandler(model.Credentials{APIKey: "sg-key"}, "noreply@example.com")
	h.url = url
	return h
}

func TestSendgridSend(t *testing.T) {
	var captured sendgridRequest
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("X-Message-Id", "sg-msg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL)

	res, err := h.Send(context.Background(), Email{
		To:       []string{"user@example.com"},
		FromName: "Acme",
		Subject:  "Hello",
		HTML:     "<p>Hello</p>",
		Text:     "Hello",
		ReplyTo:  "parse+tx-1-nv-e=env-1@inbound.example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "sg-msg-123", res.ProviderMessageID)

	assert.Equal(t, "Bearer sg-key", authHeader)
	require.Len(t, captured.Personalizations, 1)
	assert.Equal(t, "user@example.com", captured.Personalizations[0].To[0].Email)
	assert.Equal(t, "noreply@example.com", captured.From.Email)
	assert.Equal(t, "Acme", captured.From.Name)
	require.NotNil(t, captured.ReplyTo)
	assert.Equal(t, "parse+tx-1-nv-e=env-1@inbound.example.com", captured.ReplyTo.Email)

	// Text part comes first, HTML last.
	require.Len(t, captured.Content, 2)
	assert.Equal(t, "text/plain", captured.Content[0].Type)
	assert.Equal(t, "text/html", captured.Content[1].Type)
}

func TestSendgridSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad api key"}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL)

	_, err := h.Send(context.Background(), Email{
		To:      []string{"user@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hello</p>",
	})

	assert.ErrorIs(t, err, ErrDispatch)
	assert.Contains(t, err.Error(), "bad api key")
}

func TestSendgridSend_ExplicitFromWins(t *testing.T) {
	var captured sendgridRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL)

	_, err := h.Send(context.Background(), Email{
		To:   []string{"user@example.com"},
		From: "support@example.com",
		HTML: "<p>Hello</p>",
	})

	assert.NoError(t, err)
	assert.Equal(t, "support@example.com", captured.From.Email)
}
