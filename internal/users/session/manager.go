// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxkey"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
)

// Signer signs session ids into cookie values and verifies them back.
type Signer interface {
	Sign(sessionID string) (string, error)
	Verify(value string) (string, error)
}

// Options configures the cookies written by the [Manager].
type Options struct {
	// TTL is the sliding lifetime of a session record.
	TTL time.Duration

	// Secure marks both cookies as HTTPS-only.
	Secure bool
}

// Manager is the long-lived factory of per-request session handles.
type Manager struct {
	store   Store
	signer  Signer
	options Options
	newID   func() (string, error)
}

// NewManager creates a session manager over the given store and signer.
func NewManager(store Store, signer Signer, options Options) *Manager {
	return &Manager{
		store:   store,
		signer:  signer,
		options: options,
		newID: func() (string, error) {
			return sec.GenerateSecureToken(constants.SessionIDLength)
		},
	}
}

/*
Load resolves the session of the current request.

A missing cookie, a cookie failing signature verification, or an expired
record all yield a fresh anonymous handle. Only store failures are errors.

Parameters:
  - ctx: context.Context
  - writer: http.ResponseWriter (receives cookie updates)
  - request: *http.Request

Returns:
  - *Handle: Per-request session handle
  - error: Store connectivity failures
*/
func (manager *Manager) Load(ctx context.Context, writer http.ResponseWriter, request *http.Request) (*Handle, error) {
	handle := &Handle{manager: manager, writer: writer}

	if remember, err := request.Cookie(constants.RememberCookieName); err == nil {
		handle.rememberToken = remember.Value
	}

	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return handle, nil
	}

	id, err := manager.signer.Verify(cookie.Value)
	if err != nil {
		return handle, nil
	}

	data, err := manager.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return handle, nil
		}
		return nil, err
	}

	handle.id = id
	handle.data = *data
	return handle, nil
}

// Handle is the Session Manager bound to a single request.
//
// It is not safe for concurrent use.
type Handle struct {
	manager       *Manager
	writer        http.ResponseWriter
	id            string
	data          Data
	rememberToken string
	dirty         bool
}

// Start authenticates the session for the given identity.
//
// The session id is always regenerated and the previous record deleted, so
// an id planted before login never becomes authenticated.
func (handle *Handle) Start(ctx context.Context, identity Identity) error {
	if handle.id != "" {
		if err := handle.manager.store.Delete(ctx, handle.id); err != nil {
			return err
		}
		handle.id = ""
	}

	handle.data.ID = identity.ID
	handle.data.Name = identity.Name
	handle.data.Email = identity.Email
	handle.data.IsLoggedIn = true
	handle.dirty = true

	return handle.Commit(ctx)
}

// Destroy deletes the session record unconditionally and expires its cookie.
func (handle *Handle) Destroy(ctx context.Context) error {
	if handle.id != "" {
		if err := handle.manager.store.Delete(ctx, handle.id); err != nil {
			return err
		}
	}

	handle.id = ""
	handle.data = Data{}
	handle.dirty = false
	handle.setCookie(constants.SessionCookieName, "", -1)
	return nil
}

// UserID returns the id of the user authenticated in this session.
func (handle *Handle) UserID() (string, bool) {
	identity, ok := handle.data.Identity()
	return identity.ID, ok
}

// Identity returns the authenticated identity, if any.
func (handle *Handle) Identity() (Identity, bool) {
	return handle.data.Identity()
}

// RememberToken returns the raw persistent-login cookie value, or "".
func (handle *Handle) RememberToken() string {
	return handle.rememberToken
}

// SetRememberCookie issues the persistent-login cookie.
func (handle *Handle) SetRememberCookie(token string, ttl time.Duration) {
	handle.rememberToken = token
	handle.setCookie(constants.RememberCookieName, token, int(ttl.Seconds()))
}

// ClearRememberCookie expires the persistent-login cookie.
func (handle *Handle) ClearRememberCookie() {
	handle.rememberToken = ""
	handle.setCookie(constants.RememberCookieName, "", -1)
}

// AddFlash queues an alert for the next rendered page.
func (handle *Handle) AddFlash(level, message string) {
	handle.data.Flashes = append(handle.data.Flashes, Flash{Level: level, Message: message})
	handle.dirty = true
}

// Flashes returns and clears the queued alerts.
func (handle *Handle) Flashes() []Flash {
	flashes := handle.data.Flashes
	if len(flashes) > 0 {
		handle.data.Flashes = nil
		handle.dirty = true
	}
	return flashes
}

// SetOldInput stores submitted form values for re-population after a redirect.
func (handle *Handle) SetOldInput(values map[string]string) {
	handle.data.OldInput = values
	handle.dirty = true
}

// OldInput returns and clears the stored form values.
func (handle *Handle) OldInput() map[string]string {
	values := handle.data.OldInput
	if values != nil {
		handle.data.OldInput = nil
		handle.dirty = true
	}
	return values
}

// Commit persists the session and writes its cookie.
//
// Anonymous sessions with nothing to store are never persisted. Existing
// sessions are re-saved on every commit, which slides their expiry.
func (handle *Handle) Commit(ctx context.Context) error {
	if handle.id == "" && !handle.dirty {
		return nil
	}

	if handle.id == "" {
		id, err := handle.manager.newID()
		if err != nil {
			return fmt.Errorf("session: failed to generate id: %w", err)
		}
		handle.id = id
	}

	if err := handle.manager.store.Save(ctx, handle.id, &handle.data, handle.manager.options.TTL); err != nil {
		return err
	}

	signed, err := handle.manager.signer.Sign(handle.id)
	if err != nil {
		return err
	}

	handle.setCookie(constants.SessionCookieName, signed, 0)
	handle.dirty = false
	return nil
}

// setCookie writes an auth cookie. maxAge 0 means a browser-session cookie.
func (handle *Handle) setCookie(name, value string, maxAge int) {
	http.SetCookie(handle.writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handle.manager.options.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// # Context Helpers

// WithHandle returns a new context carrying the session handle.
func WithHandle(ctx context.Context, handle *Handle) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, handle)
}

// FromContext retrieves the session handle, or nil when none is attached.
func FromContext(ctx context.Context) *Handle {
	handle, _ := ctx.Value(ctxkey.KeySession).(*Handle)
	return handle
}
