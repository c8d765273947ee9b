package publisher

import (
	"context"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
)

// BroadcastPublisher delivers a notification mirror to the real-time channel
// scoped by user id.
type BroadcastPublisher interface {
	PublishNotification(ctx context.Context, ev *domain.BroadcastEvent) error
}

// PushSender delivers one push notification to a device token.
type PushSender interface {
	Send(ctx context.Context, token string, push *domain.PushNotification) error
}
