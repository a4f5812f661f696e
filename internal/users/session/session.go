// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the server-side Session Manager.

A browser is identified by a signed cookie carrying an opaque session id.
The session record itself lives in Redis and has a fixed shape: the
identity of the logged-in user plus the flash alerts and old form input
that survive exactly one redirect.

The persistent-login cookie is managed here as well, but it is never
trusted on its own: the auth flows must match its value against a stored
remember token before re-establishing a session.
*/
package session

// Flash levels rendered by the page templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Identity is the user information stored in an authenticated session.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// Flash is a one-shot alert displayed on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Data is the fixed-shape session record persisted in the store.
type Data struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name,omitempty"`
	Email      string            `json:"email,omitempty"`
	IsLoggedIn bool              `json:"isLoggedIn"`
	Flashes    []Flash           `json:"flashes,omitempty"`
	OldInput   map[string]string `json:"oldInput,omitempty"`
}

// Identity returns the stored identity, if the session is authenticated.
func (data *Data) Identity() (Identity, bool) {
	if !data.IsLoggedIn || data.ID == "" {
		return Identity{}, false
	}
	return Identity{ID: data.ID, Name: data.Name, Email: data.Email}, true
}
