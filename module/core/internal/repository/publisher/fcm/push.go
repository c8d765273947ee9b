package fcm

import (
	"context"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/publisher"
)

var _ publisher.PushSender = (*PushSender)(nil)

// clickAction is the in-app target opened when the user taps the push.
const clickAction = "/dashboard"

type PushSender struct {
	client *messaging.Client
}

func NewPushSender(client *messaging.Client) *PushSender {
	return &PushSender{client: client}
}

func (s *PushSender) Send(ctx context.Context, token string, push *domain.PushNotification) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: push.Title,
			Body:  push.Body,
		},
		Data: map[string]string{
			"type":         string(push.Type),
			"objectId":     strconv.FormatInt(push.ObjectID, 10),
			"click_action": clickAction,
		},
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
