// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/yomira-auth/internal/users/auth"
	"github.com/taibuivan/yomira-auth/internal/users/notify"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

// memoryRepository is an in-memory UserRepository with the same
// single-statement semantics as the Postgres one.
type memoryRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User

	// err, when set, fails every call like an unreachable database.
	err error

	// createErr, when set, fails Create only.
	createErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*auth.User)}
}

func cloneUser(user *auth.User) *auth.User {
	copied := *user
	copied.ActivationToken = cloneString(user.ActivationToken)
	copied.ResetToken = cloneString(user.ResetToken)
	copied.RememberToken = cloneString(user.RememberToken)
	return &copied
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func tokenOf(user *auth.User, kind auth.TokenKind) **string {
	switch kind {
	case auth.TokenActivation:
		return &user.ActivationToken
	case auth.TokenReset:
		return &user.ResetToken
	default:
		return &user.RememberToken
	}
}

// byToken returns the stored record holding hash. Callers hold mu.
func (repo *memoryRepository) byToken(kind auth.TokenKind, hash string) *auth.User {
	if hash == "" {
		return nil
	}
	for _, user := range repo.users {
		if token := *tokenOf(user, kind); token != nil && *token == hash {
			return user
		}
	}
	return nil
}

func (repo *memoryRepository) byEmail(email string) *auth.User {
	for _, user := range repo.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}

// get returns a copy of the stored record for assertions.
func (repo *memoryRepository) get(email string) *auth.User {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user := repo.byEmail(email); user != nil {
		return cloneUser(user)
	}
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	if user, ok := repo.users[id]; ok {
		return cloneUser(user), nil
	}
	return nil, auth.ErrUserNotFound
}

func (repo *memoryRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	if user := repo.byEmail(email); user != nil {
		return cloneUser(user), nil
	}
	return nil, auth.ErrUserNotFound
}

func (repo *memoryRepository) FindByToken(_ context.Context, kind auth.TokenKind, hash string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	if user := repo.byToken(kind, hash); user != nil {
		return cloneUser(user), nil
	}
	return nil, auth.ErrUserNotFound
}

func (repo *memoryRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return repo.err
	}
	if repo.createErr != nil {
		return repo.createErr
	}
	if repo.byEmail(user.Email) != nil {
		return auth.ErrEmailTaken
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	repo.users[user.ID] = cloneUser(user)
	return nil
}

func (repo *memoryRepository) Save(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return repo.err
	}
	repo.users[user.ID] = cloneUser(user)
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, id string, patch auth.UserPatch) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return repo.err
	}
	user, ok := repo.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}

	applyString := func(change auth.Change[string], target *string) {
		if change.Touched() {
			*target, _ = change.Value().(string)
		}
	}
	applyToken := func(change auth.Change[string], target **string) {
		if !change.Touched() {
			return
		}
		if value, ok := change.Value().(string); ok {
			*target = &value
			return
		}
		*target = nil
	}

	applyString(patch.Email, &user.Email)
	applyString(patch.PasswordHash, &user.PasswordHash)
	applyString(patch.FirstName, &user.FirstName)
	applyString(patch.LastName, &user.LastName)
	applyToken(patch.ActivationToken, &user.ActivationToken)
	applyToken(patch.ResetToken, &user.ResetToken)
	applyToken(patch.RememberToken, &user.RememberToken)
	if patch.IsAdmin.Touched() {
		user.IsAdmin, _ = patch.IsAdmin.Value().(bool)
	}
	if patch.Terms.Touched() {
		user.Terms, _ = patch.Terms.Value().(bool)
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (repo *memoryRepository) SetResetToken(_ context.Context, email, hash string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	user := repo.byEmail(email)
	if user == nil {
		return nil, auth.ErrUserNotFound
	}
	user.ResetToken = &hash
	return cloneUser(user), nil
}

func (repo *memoryRepository) ConsumeActivationToken(_ context.Context, hash string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	user := repo.byToken(auth.TokenActivation, hash)
	if user == nil {
		return nil, auth.ErrUserNotFound
	}
	user.ActivationToken = nil
	return cloneUser(user), nil
}

func (repo *memoryRepository) ConsumeResetToken(_ context.Context, hash, passwordHash string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	user := repo.byToken(auth.TokenReset, hash)
	if user == nil {
		return nil, auth.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.RememberToken = nil
	return cloneUser(user), nil
}

func (repo *memoryRepository) ReplaceRememberToken(_ context.Context, oldHash, newHash string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	user := repo.byToken(auth.TokenRemember, oldHash)
	if user == nil {
		return nil, auth.ErrUserNotFound
	}
	user.RememberToken = &newHash
	return cloneUser(user), nil
}

var _ auth.UserRepository = (*memoryRepository)(nil)

// sequentialTokens issues predictable distinct tokens.
type sequentialTokens struct {
	mu   sync.Mutex
	next int
}

func (tokens *sequentialTokens) Generate() (string, error) {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	tokens.next++
	return fmt.Sprintf("token-%04d", tokens.next), nil
}

// recordingNotifier captures notifications instead of emailing.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (notifier *recordingNotifier) Notify(_ context.Context, notification notify.Notification) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.sent = append(notifier.sent, notification)
	return notifier.err
}

// last returns the most recent notification of kind, or nil.
func (notifier *recordingNotifier) last(kind notify.Kind) *notify.Notification {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	for i := len(notifier.sent) - 1; i >= 0; i-- {
		if notifier.sent[i].Kind == kind {
			sent := notifier.sent[i]
			return &sent
		}
	}
	return nil
}

func (notifier *recordingNotifier) count() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.sent)
}

// fakeSession is a SessionManager backed by plain fields.
type fakeSession struct {
	identity      *session.Identity
	rememberToken string
	rememberTTL   time.Duration
	cookieCleared bool
	started       int
	destroyed     int
}

func (sess *fakeSession) Start(_ context.Context, identity session.Identity) error {
	sess.identity = &identity
	sess.started++
	return nil
}

func (sess *fakeSession) Destroy(context.Context) error {
	sess.identity = nil
	sess.destroyed++
	return nil
}

func (sess *fakeSession) UserID() (string, bool) {
	if sess.identity == nil {
		return "", false
	}
	return sess.identity.ID, true
}

func (sess *fakeSession) RememberToken() string { return sess.rememberToken }

func (sess *fakeSession) SetRememberCookie(token string, ttl time.Duration) {
	sess.rememberToken = token
	sess.rememberTTL = ttl
	sess.cookieCleared = false
}

func (sess *fakeSession) ClearRememberCookie() {
	sess.rememberToken = ""
	sess.cookieCleared = true
}

var _ auth.SessionManager = (*fakeSession)(nil)
