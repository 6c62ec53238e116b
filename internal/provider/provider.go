package provider

import (
	"context"
	"errors"
)

var (
	// ErrDispatch wraps every provider-side send failure. Provider-library
	// error types never cross this boundary.
	ErrDispatch = errors.New("provider dispatch failed")
	// ErrUnknownProvider means no handler is registered for a provider id.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Attachment is one file attached to an outgoing email.
type Attachment struct {
	File     []byte   `json:"file"`
	Mime     string   `json:"mime"`
	Name     string   `json:"name"`
	Channels []string `json:"channels,omitempty"`
}

// Email is the uniform message shape every handler translates into its
// provider call.
type Email struct {
	To          []string
	From        string
	FromName    string
	Subject     string
	HTML        string
	Text        string
	CC          []string
	BCC         []string
	ReplyTo     string
	Attachments []Attachment
	IPPoolName  string
	CustomData  map[string]any
}

// Result is the normalized provider response. ProviderMessageID stays empty
// when the provider does not assign one.
type Result struct {
	ProviderMessageID string
	Raw               string
}

// Handler sends one email through a concrete provider.
type Handler interface {
	Send(ctx context.Context, msg Email) (Result, error)
}
