// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"log/slog"
)

// LogMailer writes messages to the structured log instead of sending them.
//
// It is the development fallback when no SMTP relay is configured. The body
// carries live token links, so it is only written at debug level.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that logs through the given logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and never fails.
func (mailer *LogMailer) Send(ctx context.Context, message Message) error {
	mailer.logger.InfoContext(ctx, "email_not_sent_no_smtp",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
	)
	mailer.logger.DebugContext(ctx, "email_body",
		slog.String("to", message.To),
		slog.String("html", message.HTML),
	)
	return nil
}
