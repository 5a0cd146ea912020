package session

import (
	"context"
	"errors"
	"time"

	"github.com/consultafacil/portal-api/internal/model"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session binds a portal session to the upstream identity: the bearer token
// the upstream issued and a cached snapshot of the user. Sessions in
// different stores are not coordinated; a logout in one instance does not
// invalidate another instance's in-memory copy.
type Session struct {
	ID            string      `json:"id"`
	UpstreamToken string      `json:"upstream_token"`
	User          *model.User `json:"user"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Store persists sessions between requests.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
