// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the relay settings of an [SMTPMailer].
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSMTPMailer creates a mailer for the given relay.
//
// STARTTLS is used when the server offers it. Authentication is enabled
// only when a username is configured.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	options := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("smtp_mailer_init_failed: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send builds a MIME message and delivers it in a single SMTP session.
func (mailer *SMTPMailer) Send(ctx context.Context, message Message) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(mailer.fromName, mailer.from); err != nil {
		return fmt.Errorf("smtp_mailer_from_invalid: %w", err)
	}
	if err := msg.AddToFormat(message.ToName, message.To); err != nil {
		return fmt.Errorf("smtp_mailer_to_invalid: %w", err)
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextHTML, message.HTML)

	if err := mailer.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp_mailer_send_failed: %w", err)
	}

	return nil
}
