package provider

import (
	"bytes"
	"context"
	"fmt"

	mail "gopkg.in/mail.v2"

	"github.com/notifbox/notifbox/internal/model"
)

// SMTPHandler delivers email through a plain SMTP relay. SMTP assigns no
// provider message id, so results carry only the raw outcome.
type SMTPHandler struct {
	host     string
	port     int
	username string
	password string
	from     string
}

var _ Handler = (*SMTPHandler)(nil)

func NewSMTPHandler(creds model.Credentials, from string) *SMTPHandler {
	return &SMTPHandler{
		host:     creds.Host,
		port:     creds.Port,
		username: creds.User,
		password: creds.Password,
		from:     from,
	}
}

func (h *SMTPHandler) Send(ctx context.Context, msg Email) (Result, error) {
	message := mail.NewMessage()

	from := msg.From
	if from == "" {
		from = h.from
	}
	if msg.FromName != "" {
		from = message.FormatAddress(from, msg.FromName)
	}

	message.SetHeader("From", from)
	message.SetHeader("To", msg.To...)
	message.SetHeader("Subject", msg.Subject)

	if len(msg.CC) > 0 {
		message.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		message.SetHeader("Bcc", msg.BCC...)
	}
	if msg.ReplyTo != "" {
		message.SetHeader("Reply-To", msg.ReplyTo)
	}

	if msg.Text != "" {
		message.SetBody("text/plain", msg.Text)
		message.AddAlternative("text/html", msg.HTML)
	} else {
		message.SetBody("text/html", msg.HTML)
	}

	for _, a := range msg.Attachments {
		message.AttachReader(a.Name, bytes.NewReader(a.File))
	}

	dialer := mail.NewDialer(h.host, h.port, h.username, h.password)

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(message)
	}()

	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", ErrDispatch, ctx.Err())
	case err := <-done:
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrDispatch, err)
		}
	}

	return Result{Raw: "accepted by smtp relay"}, nil
}
