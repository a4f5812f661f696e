// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/render"
)

//go:embed templates/*.html
var templateFiles embed.FS

// templateSpec describes how a kind is rendered.
type templateSpec struct {
	subject string
	// linkPath is the page the emailed token points to, or "" for no link.
	linkPath string
}

var templates = map[Kind]templateSpec{
	KindActivation:      {subject: "Activate your account", linkPath: constants.PathActivation},
	KindConfirmation:    {subject: "Your account has been activated"},
	KindPasswordChanged: {subject: "Your password has been changed"},
	KindResetRequested:  {subject: "Password reset request", linkPath: constants.PathResetPassword},
}

// Gateway renders notifications and passes them to a [Mailer].
type Gateway struct {
	mailer   Mailer
	renderer *render.Renderer
	baseURL  string
	appName  string
}

// NewGateway compiles the email templates and returns a ready gateway.
//
// # Parameters
//   - mailer: Delivery transport (SMTP or log).
//   - baseURL: Public origin used to build links, e.g. "https://yomira.app".
//   - appName: Product name shown in the email footer.
func NewGateway(mailer Mailer, baseURL, appName string) (*Gateway, error) {
	files, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("notify: failed to open templates: %w", err)
	}

	renderer, err := render.New(files, "layout")
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}

	for kind := range templates {
		if !renderer.Has(string(kind)) {
			return nil, fmt.Errorf("notify: missing template for %s", kind)
		}
	}

	return &Gateway{
		mailer:   mailer,
		renderer: renderer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		appName:  appName,
	}, nil
}

/*
Notify renders the email for the notification kind and delivers it.

Delivery is bounded by [constants.NotificationTimeout].

Parameters:
  - ctx: context.Context
  - notification: Notification

Returns:
  - error: Unknown kind, missing token, rendering or delivery failures
*/
func (gateway *Gateway) Notify(ctx context.Context, notification Notification) error {
	entry, ok := templates[notification.Kind]
	if !ok {
		return fmt.Errorf("notify: unknown kind %q", notification.Kind)
	}

	data := render.Data{
		"first_name": notification.To.FirstName,
		"app_name":   gateway.appName,
		"base_url":   gateway.baseURL,
	}

	if entry.linkPath != "" {
		if notification.Token == "" {
			return fmt.Errorf("notify: %s requires a token", notification.Kind)
		}
		data["link"] = gateway.baseURL + entry.linkPath + "?token=" + url.QueryEscape(notification.Token)
	}

	body, err := gateway.renderer.Render(string(notification.Kind), data)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, constants.NotificationTimeout)
	defer cancel()

	return gateway.mailer.Send(sendCtx, Message{
		To:      notification.To.Email,
		ToName:  notification.To.FullName(),
		Subject: entry.subject,
		HTML:    string(body),
	})
}
