package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/notifbox/notifbox/internal/model"
)

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

// SendgridHandler delivers email through the SendGrid HTTP API. The provider
// message id comes back in the X-Message-Id response header.
type SendgridHandler struct {
	apiKey string
	from   string
	url    string
	client *http.Client
}

var _ Handler = (*SendgridHandler)(nil)

func NewSendgridHandler(creds model.Credentials, from string) *SendgridHandler {
	return &SendgridHandler{
		apiKey: creds.APIKey,
		from:   from,
		url:    sendgridURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridAttachment struct {
	Content  string `json:"content"`
	Type     string `json:"type,omitempty"`
	Filename string `json:"filename"`
}

type sendgridPersonalization struct {
	To  []sendgridAddress `json:"to"`
	CC  []sendgridAddress `json:"cc,omitempty"`
	BCC []sendgridAddress `json:"bcc,omitempty"`
}

type sendgridRequest struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	ReplyTo          *sendgridAddress          `json:"reply_to,omitempty"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
	Attachments      []sendgridAttachment      `json:"attachments,omitempty"`
	IPPoolName       string                    `json:"ip_pool_name,omitempty"`
	CustomArgs       map[string]any            `json:"custom_args,omitempty"`
}

func (h *SendgridHandler) Send(ctx context.Context, msg Email) (Result, error) {
	from := msg.From
	if from == "" {
		from = h.from
	}

	req := sendgridRequest{
		Personalizations: []sendgridPersonalization{{
			To:  toAddresses(msg.To),
			CC:  toAddresses(msg.CC),
			BCC: toAddresses(msg.BCC),
		}},
		From:       sendgridAddress{Email: from, Name: msg.FromName},
		Subject:    msg.Subject,
		IPPoolName: msg.IPPoolName,
		CustomArgs: msg.CustomData,
	}

	if msg.Text != "" {
		req.Content = append(req.Content, sendgridContent{Type: "text/plain", Value: msg.Text})
	}
	req.Content = append(req.Content, sendgridContent{Type: "text/html", Value: msg.HTML})

	if msg.ReplyTo != "" {
		req.ReplyTo = &sendgridAddress{Email: msg.ReplyTo}
	}

	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, sendgridAttachment{
			Content:  base64.StdEncoding.EncodeToString(a.File),
			Type:     a.Mime,
			Filename: a.Name,
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: marshal request: %v", ErrDispatch, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= http.StatusMultipleChoices {
		return Result{}, fmt.Errorf("%w: sendgrid responded %s: %s", ErrDispatch, resp.Status, raw)
	}

	return Result{
		ProviderMessageID: resp.Header.Get("X-Message-Id"),
		Raw:               resp.Status,
	}, nil
}

func toAddresses(emails []string) []sendgridAddress {
	if len(emails) == 0 {
		return nil
	}

	addrs := make([]sendgridAddress, 0, len(emails))
	for _, e := range emails {
		addrs = append(addrs, sendgridAddress{Email: e})
	}

	return addrs
}
