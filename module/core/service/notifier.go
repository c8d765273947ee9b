package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/publisher"
)

const (
	exitMessage  = "'%s' has left the safe zone!"
	enterMessage = "'%s' has returned to the safe zone."

	exitPushTitle  = "Object Left Safe Zone!"
	enterPushTitle = "Object Returned"

	defaultPushTimeout = 10 * time.Second
)

// Notifier fans one detected crossing out to the three sinks. Record writes
// the durable notification and must run inside the caller's transaction;
// Deliver handles the two best-effort sinks after that transaction commits.
// Broadcast and push failures are logged and absorbed here, never returned.
type Notifier struct {
	db            database.Querier
	notifications database.NotificationRepository
	users         database.UserRepository
	broadcast     publisher.BroadcastPublisher
	push          publisher.PushSender
	pushTimeout   time.Duration
	log           zerolog.Logger

	wg sync.WaitGroup
}

// NewNotifier wires the fanout. push may be nil, in which case the push sink
// is disabled and silently skipped.
func NewNotifier(
	db database.Querier,
	notifications database.NotificationRepository,
	users database.UserRepository,
	broadcast publisher.BroadcastPublisher,
	push publisher.PushSender,
	log zerolog.Logger,
) *Notifier {
	return &Notifier{
		db:            db,
		notifications: notifications,
		users:         users,
		broadcast:     broadcast,
		push:          push,
		pushTimeout:   defaultPushTimeout,
		log:           log.With().Str("component", "notifier").Logger(),
	}
}

// Record builds the durable notification for a crossing and inserts it via q.
// An error here aborts the whole update.
func (s *Notifier) Record(ctx context.Context, q database.Querier, c *domain.Crossing) (*domain.Notification, error) {
	text := enterMessage
	if c.Type == domain.GeofenceExit {
		text = exitMessage
	}

	n := &domain.Notification{
		UserID:     c.Update.UserID,
		ObjectID:   c.Update.ObjectID,
		ObjectName: c.Update.ObjectName,
		ObjectType: c.Update.ObjectType,
		Message:    fmt.Sprintf(text, c.Update.ObjectName),
		Type:       c.Type,
		Read:       false,
		CreatedAt:  c.At,
	}
	if err := s.notifications.Insert(ctx, q, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Deliver publishes the broadcast mirror and dispatches the push
// asynchronously. Safe to call only after the durable unit committed.
func (s *Notifier) Deliver(ctx context.Context, n *domain.Notification) {
	log := s.log.With().Int64("user_id", n.UserID).Int64("object_id", n.ObjectID).Str("type", string(n.Type)).Logger()

	ev := &domain.BroadcastEvent{
		UserID:     n.UserID,
		ObjectID:   n.ObjectID,
		ObjectName: n.ObjectName,
		ObjectType: n.ObjectType,
		Message:    n.Message,
		Type:       n.Type,
		Timestamp:  n.CreatedAt,
	}
	if err := s.broadcast.PublishNotification(ctx, ev); err != nil {
		log.Error().Err(err).Msg("broadcast publish failed")
	} else {
		log.Info().Msg("broadcast sent")
	}

	if s.push == nil {
		log.Debug().Msg("push disabled, skipping")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendPush(n)
	}()
}

// Wait blocks until all in-flight push sends have finished. Used during
// shutdown so the process does not exit mid-send.
func (s *Notifier) Wait() {
	s.wg.Wait()
}

func (s *Notifier) sendPush(n *domain.Notification) {
	log := s.log.With().Int64("user_id", n.UserID).Int64("object_id", n.ObjectID).Logger()

	// Detached from the consumer context: acking the triggering update must
	// not cancel an in-flight push.
	ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
	defer cancel()

	token, err := s.users.GetFCMToken(ctx, s.db, n.UserID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && token == "") {
		log.Debug().Msg("no fcm token registered, skipping push")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("fcm token lookup failed")
		return
	}

	title := enterPushTitle
	if n.Type == domain.GeofenceExit {
		title = exitPushTitle
	}

	push := &domain.PushNotification{
		Title:    title,
		Body:     n.Message,
		Type:     n.Type,
		ObjectID: n.ObjectID,
	}
	if err := s.push.Send(ctx, token, push); err != nil {
		log.Error().Err(err).Msg("push send failed")
		return
	}
	log.Info().Msg("push sent")
}
