package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/publisher"
)

var _ publisher.BroadcastPublisher = (*NotificationBroadcaster)(nil)

const (
	topicPrefix    = "notifications/"
	publishTimeout = 5 * time.Second
)

type NotificationBroadcaster struct {
	client paho.Client
}

func NewNotificationBroadcaster(client paho.Client) *NotificationBroadcaster {
	return &NotificationBroadcaster{client: client}
}

func (b *NotificationBroadcaster) PublishNotification(_ context.Context, ev *domain.BroadcastEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal broadcast event: %w", err)
	}

	topic := fmt.Sprintf("%s%d", topicPrefix, ev.UserID)
	token := b.client.Publish(topic, 1, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
