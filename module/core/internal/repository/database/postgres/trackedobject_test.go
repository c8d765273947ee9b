package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

func objectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "type", "geofence_center_lat", "geofence_center_lng", "geofence_radius_m", "outside_geofence"})
}

func TestGetForUpdate_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM tracked_objects WHERE id = (.+) FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(objectRows().AddRow(int64(7), "Rex", "DOG", -6.2088, 106.8456, 100.0, true))

	repo := NewTrackedObjectRepo()
	obj, err := repo.GetForUpdate(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.Name != "Rex" {
		t.Errorf("expected Rex, got %s", obj.Name)
	}
	if obj.Geofence == nil || obj.Geofence.RadiusMeters != 100.0 {
		t.Errorf("unexpected geofence: %+v", obj.Geofence)
	}
	if obj.OutsideGeofence == nil || !*obj.OutsideGeofence {
		t.Error("expected outside_geofence true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetForUpdate_UninitializedState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM tracked_objects WHERE id = (.+) FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(objectRows().AddRow(int64(7), "Rex", "DOG", nil, nil, nil, nil))

	repo := NewTrackedObjectRepo()
	obj, err := repo.GetForUpdate(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.Geofence != nil {
		t.Errorf("expected no geofence, got %+v", obj.Geofence)
	}
	if obj.OutsideGeofence != nil {
		t.Error("expected nil outside_geofence for an unobserved object")
	}
}

func TestGetForUpdate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT (.+) FROM tracked_objects WHERE id = (.+) FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnRows(objectRows())

	repo := NewTrackedObjectRepo()
	_, err = repo.GetForUpdate(context.Background(), db, 99)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveBoundaryState_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`UPDATE tracked_objects SET outside_geofence = (.+) WHERE id = (.+)`).
		WithArgs(true, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTrackedObjectRepo()
	if err := repo.SaveBoundaryState(context.Background(), db, 7, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveBoundaryState_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`UPDATE tracked_objects SET outside_geofence = (.+) WHERE id = (.+)`).
		WithArgs(false, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTrackedObjectRepo()
	err = repo.SaveBoundaryState(context.Background(), db, 99, false)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
