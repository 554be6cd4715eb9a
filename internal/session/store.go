// Package session stores transient per-user wizard state. Sessions are
// keyed by the platform user id so concurrent conversations never share
// state; writes are last-writer-wins.
package session

import (
	"context"
	"errors"

	"github.com/sman1la/tatib-bot/internal/models"
)

// ErrNotFound is returned when no session exists for a user.
var ErrNotFound = errors.New("session not found")

// Store is the session backend. A missing session is equivalent to an
// idle one; callers treat ErrNotFound as "start from idle".
type Store interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Put(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, userID int64) error
}
