package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Querier is satisfied by both *sql.DB and *sql.Tx, so repository methods
// work inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor runs fn inside a single transaction, committing on nil and
// rolling back on error.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(q Querier) error) error
}

type TrackedObjectRepository interface {
	Get(ctx context.Context, q Querier, id int64) (*domain.TrackedObject, error)
	// GetForUpdate row-locks the object so concurrent updates for the same
	// object serialize on the database.
	GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.TrackedObject, error)
	SaveBoundaryState(ctx context.Context, q Querier, id int64, outside bool) error
}

type NotificationRepository interface {
	Insert(ctx context.Context, q Querier, n *domain.Notification) error
	ListByUser(ctx context.Context, q Querier, userID int64) ([]domain.Notification, error)
	ListUnreadByUser(ctx context.Context, q Querier, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, q Querier, id int64) error
}

type UserRepository interface {
	// GetFCMToken returns the user's device token, or "" when the user has
	// none registered. ErrNotFound when the user itself is missing.
	GetFCMToken(ctx context.Context, q Querier, userID int64) (string, error)
}
