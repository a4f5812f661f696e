// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for a session id.
var ErrNotFound = errors.New("session: not found")

// Store defines the persistence contract for session records.
type Store interface {

	/*
		Load returns the record stored under id.

		Returns:
		  - *Data: Decoded record
		  - error: ErrNotFound if absent or expired, otherwise connectivity errors
	*/
	Load(ctx context.Context, id string) (*Data, error)

	/*
		Save writes the record and (re)sets its time to live.
	*/
	Save(ctx context.Context, id string, data *Data, ttl time.Duration) error

	/*
		Delete removes the record. Deleting a missing record is not an error.
	*/
	Delete(ctx context.Context, id string) error
}
