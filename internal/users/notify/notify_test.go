// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/users/notify"
)

type recordingMailer struct {
	messages []notify.Message
	err      error
}

func (mailer *recordingMailer) Send(ctx context.Context, message notify.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a bounded context")
	}
	mailer.messages = append(mailer.messages, message)
	return mailer.err
}

var alice = notify.Recipient{Email: "alice@example.com", FirstName: "Alice", LastName: "Doe"}

/*
TestGateway_Notify renders each kind with its subject and link.
*/
func TestGateway_Notify(t *testing.T) {
	tests := []struct {
		kind        notify.Kind
		token       string
		wantSubject string
		wantLink    string
	}{
		{notify.KindActivation, "tok+1", "Activate your account", "https://auth.test/activation?token=tok%2B1"},
		{notify.KindResetRequested, "tok2", "Password reset request", "https://auth.test/reset-password?token=tok2"},
		{notify.KindConfirmation, "", "Your account has been activated", ""},
		{notify.KindPasswordChanged, "", "Your password has been changed", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mailer := &recordingMailer{}
			gateway, err := notify.NewGateway(mailer, "https://auth.test/", "Yomira")
			require.NoError(t, err)

			require.NoError(t, gateway.Notify(context.Background(), notify.Notification{
				Kind:  tt.kind,
				To:    alice,
				Token: tt.token,
			}))

			require.Len(t, mailer.messages, 1)
			message := mailer.messages[0]
			assert.Equal(t, "alice@example.com", message.To)
			assert.Equal(t, "Alice Doe", message.ToName)
			assert.Equal(t, tt.wantSubject, message.Subject)
			assert.Contains(t, message.HTML, "Hello Alice!")
			assert.Contains(t, message.HTML, `<a href="https://auth.test">Yomira</a>`)
			if tt.wantLink != "" {
				assert.Contains(t, message.HTML, tt.wantLink)
			}
		})
	}
}

/*
TestGateway_Notify_EscapesNames never injects markup from user input.
*/
func TestGateway_Notify_EscapesNames(t *testing.T) {
	mailer := &recordingMailer{}
	gateway, err := notify.NewGateway(mailer, "https://auth.test", "Yomira")
	require.NoError(t, err)

	recipient := notify.Recipient{Email: "eve@example.com", FirstName: "<script>"}
	require.NoError(t, gateway.Notify(context.Background(), notify.Notification{Kind: notify.KindConfirmation, To: recipient}))

	assert.NotContains(t, mailer.messages[0].HTML, "<script>")
	assert.Contains(t, mailer.messages[0].HTML, "&lt;script&gt;")
}

/*
TestGateway_Notify_Errors covers invalid requests and delivery failures.
*/
func TestGateway_Notify_Errors(t *testing.T) {
	mailer := &recordingMailer{}
	gateway, err := notify.NewGateway(mailer, "https://auth.test", "Yomira")
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, gateway.Notify(ctx, notify.Notification{Kind: "welcome", To: alice}))
	assert.Error(t, gateway.Notify(ctx, notify.Notification{Kind: notify.KindActivation, To: alice}))
	assert.Empty(t, mailer.messages)

	mailer.err = errors.New("relay down")
	assert.ErrorIs(t, gateway.Notify(ctx, notify.Notification{Kind: notify.KindConfirmation, To: alice}), mailer.err)
}

/*
TestRecipient_FullName joins the available name parts.
*/
func TestRecipient_FullName(t *testing.T) {
	assert.Equal(t, "Alice Doe", alice.FullName())
	assert.Equal(t, "Alice", notify.Recipient{FirstName: "Alice"}.FullName())
	assert.Equal(t, "Doe", notify.Recipient{LastName: "Doe"}.FullName())
}

/*
TestLogMailer keeps bodies out of info-level logs.
*/
func TestLogMailer(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelInfo}))

	mailer := notify.NewLogMailer(logger)
	require.NoError(t, mailer.Send(context.Background(), notify.Message{
		To:      "alice@example.com",
		Subject: "Activate your account",
		HTML:    "secret-link",
	}))

	assert.Contains(t, buffer.String(), "email_not_sent_no_smtp")
	assert.Contains(t, buffer.String(), "Activate your account")
	assert.NotContains(t, buffer.String(), "secret-link")
}

/*
TestSMTPMailer covers construction and an unreachable relay.
*/
func TestSMTPMailer(t *testing.T) {
	_, err := notify.NewSMTPMailer(notify.SMTPConfig{Host: "", Port: 587})
	assert.Error(t, err)

	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     1,
		From:     "no-reply@yomira.app",
		FromName: "Yomira",
	})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), notify.Message{To: "alice@example.com", Subject: "s", HTML: "b"})
	assert.Error(t, err)
}
