package service

import (
	"context"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

// NotificationService serves the read-side HTTP surface.
type NotificationService struct {
	db            database.Querier
	notifications database.NotificationRepository
	objects       database.TrackedObjectRepository
}

func NewNotificationService(db database.Querier, notifications database.NotificationRepository, objects database.TrackedObjectRepository) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: notifications,
		objects:       objects,
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, s.db, userID)
}

func (s *NotificationService) ListUnreadForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.notifications.ListUnreadByUser(ctx, s.db, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.notifications.MarkRead(ctx, s.db, id)
}

func (s *NotificationService) GetObject(ctx context.Context, id int64) (*domain.TrackedObject, error) {
	return s.objects.Get(ctx, s.db, id)
}
