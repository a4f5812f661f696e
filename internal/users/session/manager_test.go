// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

type browser struct {
	cookies map[string]*http.Cookie
}

func newBrowser() *browser {
	return &browser{cookies: make(map[string]*http.Cookie)}
}

// request builds a request carrying the cookies still alive in the jar.
func (b *browser) request() *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range b.cookies {
		request.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return request
}

// absorb applies the Set-Cookie headers of a response to the jar.
func (b *browser) absorb(recorder *httptest.ResponseRecorder) {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
}

func newManager(t *testing.T) (*session.Manager, *session.RedisStore) {
	t.Helper()
	_, client := newRedis(t)
	store := session.NewRedisStore(client)
	signer := sec.NewCookieSigner(strings.Repeat("s", 32), constants.AuthIssuer)
	return session.NewManager(store, signer, session.Options{TTL: time.Hour}), store
}

/*
TestManager_AnonymousIsNotPersisted writes nothing for untouched visitors.
*/
func TestManager_AnonymousIsNotPersisted(t *testing.T) {
	manager, _ := newManager(t)
	recorder := httptest.NewRecorder()

	handle, err := manager.Load(context.Background(), recorder, newBrowser().request())
	require.NoError(t, err)

	_, ok := handle.UserID()
	assert.False(t, ok)
	require.NoError(t, handle.Commit(context.Background()))
	assert.Empty(t, recorder.Result().Cookies())
}

/*
TestManager_StartAndReload authenticates and resolves the session on the next request.
*/
func TestManager_StartAndReload(t *testing.T) {
	manager, _ := newManager(t)
	ctx := context.Background()
	client := newBrowser()

	recorder := httptest.NewRecorder()
	handle, err := manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	require.NoError(t, handle.Start(ctx, session.Identity{ID: "user-1", Name: "Alice Doe", Email: "alice@example.com"}))
	client.absorb(recorder)

	cookie := client.cookies[constants.SessionCookieName]
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	next, err := manager.Load(ctx, httptest.NewRecorder(), client.request())
	require.NoError(t, err)

	identity, ok := next.Identity()
	require.True(t, ok)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "Alice Doe", identity.Name)
	assert.Equal(t, "alice@example.com", identity.Email)
}

/*
TestManager_StartRegeneratesID never authenticates a pre-existing session id.
*/
func TestManager_StartRegeneratesID(t *testing.T) {
	manager, store := newManager(t)
	ctx := context.Background()
	client := newBrowser()

	// An anonymous session holding a flash.
	recorder := httptest.NewRecorder()
	handle, err := manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	handle.AddFlash(session.FlashSuccess, "Registered")
	require.NoError(t, handle.Commit(ctx))
	client.absorb(recorder)
	before := client.cookies[constants.SessionCookieName].Value

	recorder = httptest.NewRecorder()
	handle, err = manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	require.NoError(t, handle.Start(ctx, session.Identity{ID: "user-1"}))
	client.absorb(recorder)
	after := client.cookies[constants.SessionCookieName].Value

	assert.NotEqual(t, before, after)

	signer := sec.NewCookieSigner(strings.Repeat("s", 32), constants.AuthIssuer)
	oldID, err := signer.Verify(before)
	require.NoError(t, err)
	_, err = store.Load(ctx, oldID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

/*
TestManager_Destroy removes the record and expires the cookie.
*/
func TestManager_Destroy(t *testing.T) {
	manager, _ := newManager(t)
	ctx := context.Background()
	client := newBrowser()

	recorder := httptest.NewRecorder()
	handle, err := manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	require.NoError(t, handle.Start(ctx, session.Identity{ID: "user-1"}))
	client.absorb(recorder)
	stolen := client.request()

	recorder = httptest.NewRecorder()
	handle, err = manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	require.NoError(t, handle.Destroy(ctx))
	client.absorb(recorder)

	_, ok := handle.UserID()
	assert.False(t, ok)
	assert.NotContains(t, client.cookies, constants.SessionCookieName)

	// Replaying the old cookie resolves to an anonymous session.
	replayed, err := manager.Load(ctx, httptest.NewRecorder(), stolen)
	require.NoError(t, err)
	_, ok = replayed.UserID()
	assert.False(t, ok)
}

/*
TestManager_FlashesAndOldInput survive exactly one redirect.
*/
func TestManager_FlashesAndOldInput(t *testing.T) {
	manager, _ := newManager(t)
	ctx := context.Background()
	client := newBrowser()

	recorder := httptest.NewRecorder()
	handle, err := manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	handle.AddFlash(session.FlashError, "Incorrect login")
	handle.SetOldInput(map[string]string{"email": "alice@example.com"})
	require.NoError(t, handle.Commit(ctx))
	client.absorb(recorder)

	recorder = httptest.NewRecorder()
	handle, err = manager.Load(ctx, recorder, client.request())
	require.NoError(t, err)
	assert.Equal(t, []session.Flash{{Level: session.FlashError, Message: "Incorrect login"}}, handle.Flashes())
	assert.Equal(t, map[string]string{"email": "alice@example.com"}, handle.OldInput())
	require.NoError(t, handle.Commit(ctx))
	client.absorb(recorder)

	handle, err = manager.Load(ctx, httptest.NewRecorder(), client.request())
	require.NoError(t, err)
	assert.Empty(t, handle.Flashes())
	assert.Nil(t, handle.OldInput())
}

/*
TestManager_TamperedCookie is treated as no session.
*/
func TestManager_TamperedCookie(t *testing.T) {
	manager, _ := newManager(t)
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "forged"})

	handle, err := manager.Load(context.Background(), httptest.NewRecorder(), request)
	require.NoError(t, err)
	_, ok := handle.UserID()
	assert.False(t, ok)
}

/*
TestManager_RememberCookie sets and clears the persistent-login cookie.
*/
func TestManager_RememberCookie(t *testing.T) {
	manager, _ := newManager(t)
	client := newBrowser()

	recorder := httptest.NewRecorder()
	handle, err := manager.Load(context.Background(), recorder, client.request())
	require.NoError(t, err)
	assert.Empty(t, handle.RememberToken())

	handle.SetRememberCookie("raw-token", 31*24*time.Hour)
	client.absorb(recorder)

	cookie := client.cookies[constants.RememberCookieName]
	require.NotNil(t, cookie)
	assert.Equal(t, "raw-token", cookie.Value)
	assert.Equal(t, 31*24*60*60, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	recorder = httptest.NewRecorder()
	handle, err = manager.Load(context.Background(), recorder, client.request())
	require.NoError(t, err)
	assert.Equal(t, "raw-token", handle.RememberToken())

	handle.ClearRememberCookie()
	assert.Empty(t, handle.RememberToken())
	client.absorb(recorder)
	assert.NotContains(t, client.cookies, constants.RememberCookieName)
}

/*
TestContextHelpers attach and retrieve the handle.
*/
func TestContextHelpers(t *testing.T) {
	assert.Nil(t, session.FromContext(context.Background()))

	manager, _ := newManager(t)
	handle, err := manager.Load(context.Background(), httptest.NewRecorder(), newBrowser().request())
	require.NoError(t, err)

	ctx := session.WithHandle(context.Background(), handle)
	assert.Same(t, handle, session.FromContext(ctx))
}
