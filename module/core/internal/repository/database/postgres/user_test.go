package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

func TestGetFCMToken_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT fcm_token FROM users WHERE user_id = (.+)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"fcm_token"}).AddRow("device-token"))

	repo := NewUserRepo()
	token, err := repo.GetFCMToken(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "device-token" {
		t.Errorf("expected device-token, got %s", token)
	}
}

func TestGetFCMToken_NullToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT fcm_token FROM users WHERE user_id = (.+)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"fcm_token"}).AddRow(nil))

	repo := NewUserRepo()
	token, err := repo.GetFCMToken(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
}

func TestGetFCMToken_UserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT fcm_token FROM users WHERE user_id = (.+)`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"fcm_token"}))

	repo := NewUserRepo()
	_, err = repo.GetFCMToken(context.Background(), db, 99)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
