package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

var _ database.UserRepository = (*UserRepo)(nil)

type UserRepo struct{}

func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

func (r *UserRepo) GetFCMToken(ctx context.Context, q database.Querier, userID int64) (string, error) {
	var token sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT fcm_token FROM users WHERE user_id = $1`,
		userID,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", database.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return token.String, nil
}
