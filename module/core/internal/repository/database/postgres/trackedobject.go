package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

var _ database.TrackedObjectRepository = (*TrackedObjectRepo)(nil)

type TrackedObjectRepo struct{}

func NewTrackedObjectRepo() *TrackedObjectRepo {
	return &TrackedObjectRepo{}
}

const trackedObjectColumns = `id, name, type, geofence_center_lat, geofence_center_lng, geofence_radius_m, outside_geofence`

func (r *TrackedObjectRepo) Get(ctx context.Context, q database.Querier, id int64) (*domain.TrackedObject, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+trackedObjectColumns+` FROM tracked_objects WHERE id = $1`,
		id,
	)
	return scanTrackedObject(row)
}

func (r *TrackedObjectRepo) GetForUpdate(ctx context.Context, q database.Querier, id int64) (*domain.TrackedObject, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+trackedObjectColumns+` FROM tracked_objects WHERE id = $1 FOR UPDATE`,
		id,
	)
	return scanTrackedObject(row)
}

func (r *TrackedObjectRepo) SaveBoundaryState(ctx context.Context, q database.Querier, id int64, outside bool) error {
	res, err := q.ExecContext(ctx,
		`UPDATE tracked_objects SET outside_geofence = $1 WHERE id = $2`,
		outside, id,
	)
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

func scanTrackedObject(row *sql.Row) (*domain.TrackedObject, error) {
	var (
		obj     domain.TrackedObject
		name    sql.NullString
		typ     sql.NullString
		lat     sql.NullFloat64
		lng     sql.NullFloat64
		radius  sql.NullFloat64
		outside sql.NullBool
	)
	err := row.Scan(&obj.ID, &name, &typ, &lat, &lng, &radius, &outside)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	obj.Name = name.String
	obj.Type = typ.String
	if lat.Valid && lng.Valid && radius.Valid {
		obj.Geofence = &domain.Geofence{
			CenterLat:    lat.Float64,
			CenterLng:    lng.Float64,
			RadiusMeters: radius.Float64,
		}
	}
	if outside.Valid {
		obj.OutsideGeofence = &outside.Bool
	}
	return &obj, nil
}
