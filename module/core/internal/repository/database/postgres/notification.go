package postgres

import (
	"context"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

var _ database.NotificationRepository = (*NotificationRepo)(nil)

type NotificationRepo struct{}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Insert(ctx context.Context, q database.Querier, n *domain.Notification) error {
	return q.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, object_id, object_name, object_type, message, type, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		n.UserID, n.ObjectID, n.ObjectName, n.ObjectType, n.Message, string(n.Type), n.Read, n.CreatedAt,
	).Scan(&n.ID)
}

func (r *NotificationRepo) ListByUser(ctx context.Context, q database.Querier, userID int64) ([]domain.Notification, error) {
	return r.list(ctx, q,
		`SELECT id, user_id, object_id, object_name, object_type, message, type, read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *NotificationRepo) ListUnreadByUser(ctx context.Context, q database.Querier, userID int64) ([]domain.Notification, error) {
	return r.list(ctx, q,
		`SELECT id, user_id, object_id, object_name, object_type, message, type, read, created_at
		 FROM notifications WHERE user_id = $1 AND read = FALSE ORDER BY created_at DESC`,
		userID,
	)
}

func (r *NotificationRepo) MarkRead(ctx context.Context, q database.Querier, id int64) error {
	res, err := q.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) list(ctx context.Context, q database.Querier, query string, args ...any) ([]domain.Notification, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ObjectID, &n.ObjectName, &n.ObjectType, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, n)
	}
	return results, rows.Err()
}
