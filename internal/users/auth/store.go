// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Token arguments are always digests. Lookups that match nothing return
// [ErrUserNotFound].
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or database retrieval failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or database retrieval failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByToken returns the account whose token of the given kind equals hash.

		Parameters:
		  - ctx: context.Context
		  - kind: TokenKind
		  - hash: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or database retrieval failures
	*/
	FindByToken(ctx context.Context, kind TokenKind, hash string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - ctx: context.Context
		  - user: *User (timestamps are filled in)

		Returns:
		  - error: ErrEmailTaken or persistence failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		Save inserts the account or overwrites the existing row with the same ID.

		Parameters:
		  - ctx: context.Context
		  - user: *User

		Returns:
		  - error: ErrEmailTaken or persistence failures
	*/
	Save(ctx context.Context, user *User) error

	/*
		Update applies a partial update to the account.

		Parameters:
		  - ctx: context.Context
		  - id: string
		  - patch: UserPatch

		Returns:
		  - error: ErrUserNotFound, ErrEmailTaken or persistence failures
	*/
	Update(ctx context.Context, id string, patch UserPatch) error

	/*
		SetResetToken stores a reset token digest on the account with the given email.

		The write is a single update-by-email, so concurrent requests resolve
		as last writer wins.

		Returns:
		  - *User: Account after the update
		  - error: ErrUserNotFound or persistence failures
	*/
	SetResetToken(ctx context.Context, email, hash string) (*User, error)

	/*
		ConsumeActivationToken clears the activation token iff it equals hash.

		Returns:
		  - *User: Account after activation
		  - error: ErrUserNotFound when no account holds the token
	*/
	ConsumeActivationToken(ctx context.Context, hash string) (*User, error)

	/*
		ConsumeResetToken replaces the password hash and clears the reset token
		iff it equals hash. The remember token is cleared in the same update.

		Returns:
		  - *User: Account after the reset
		  - error: ErrUserNotFound when no account holds the token
	*/
	ConsumeResetToken(ctx context.Context, hash, passwordHash string) (*User, error)

	/*
		ReplaceRememberToken swaps the remember token iff the current one equals oldHash.

		Returns:
		  - *User: Account after the rotation
		  - error: ErrUserNotFound when no account holds oldHash
	*/
	ReplaceRememberToken(ctx context.Context, oldHash, newHash string) (*User, error)
}
