package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
)

const (
	exchangeName = "location.exchange"
	queueName    = "location.queue"
	routingKey   = "location.update"
)

type geofenceService interface {
	ProcessUpdate(ctx context.Context, msg *domain.LocationUpdate) error
}

type locationMessage struct {
	UserID               int64    `json:"userId"`
	ObjectID             int64    `json:"objectId"`
	ObjectName           string   `json:"objectName"`
	ObjectType           string   `json:"objectType"`
	Latitude             float64  `json:"latitude"`
	Longitude            float64  `json:"longitude"`
	GeofenceCenterLat    *float64 `json:"geofenceCenterLat"`
	GeofenceCenterLng    *float64 `json:"geofenceCenterLng"`
	GeofenceRadiusMeters *float64 `json:"geofenceRadiusMeters"`
}

type delivery struct {
	msg amqp.Delivery
	upd *domain.LocationUpdate
}

// LocationConsumer reads location updates from the queue and runs each one
// through the geofence service. Deliveries are sharded onto a fixed set of
// workers by object id, so updates for one object keep their arrival order
// while different objects proceed concurrently.
type LocationConsumer struct {
	ch      *amqp.Channel
	svc     geofenceService
	workers int
	log     zerolog.Logger

	tag    string
	shards []chan delivery
	wg     sync.WaitGroup
}

func NewLocationConsumer(conn *amqp.Connection, svc geofenceService, workers int, log zerolog.Logger) (*LocationConsumer, error) {
	if workers < 1 {
		workers = 1
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queueName, routingKey, exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	if err := ch.Qos(workers, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &LocationConsumer{
		ch:      ch,
		svc:     svc,
		workers: workers,
		log:     log.With().Str("component", "location-consumer").Logger(),
	}, nil
}

func (s *LocationConsumer) Start() error {
	s.tag = "geofence-service"
	deliveries, err := s.ch.Consume(queueName, s.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	s.shards = make([]chan delivery, s.workers)
	for i := range s.shards {
		shard := make(chan delivery, 1)
		s.shards[i] = shard
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for d := range shard {
				s.handle(d)
			}
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatch(deliveries)
	}()

	s.log.Info().Int("workers", s.workers).Str("queue", queueName).Msg("consuming location updates")
	return nil
}

// Stop cancels the consumer, drains in-flight work and releases the channel.
func (s *LocationConsumer) Stop() error {
	if s.tag != "" {
		if err := s.ch.Cancel(s.tag, false); err != nil {
			return fmt.Errorf("cancel consumer: %w", err)
		}
	}
	s.wg.Wait()
	return s.ch.Close()
}

func (s *LocationConsumer) dispatch(deliveries <-chan amqp.Delivery) {
	defer func() {
		for _, shard := range s.shards {
			close(shard)
		}
	}()

	for msg := range deliveries {
		var raw locationMessage
		if err := json.Unmarshal(msg.Body, &raw); err != nil {
			s.log.Error().Err(err).Msg("invalid location message, dropping")
			_ = msg.Ack(false)
			continue
		}
		if err := validateLocationMessage(&raw); err != nil {
			s.log.Error().Err(err).Int64("object_id", raw.ObjectID).Msg("validation error, dropping")
			_ = msg.Ack(false)
			continue
		}

		shard := s.shards[shardIndex(raw.ObjectID, len(s.shards))]
		shard <- delivery{msg: msg, upd: toLocationUpdate(&raw)}
	}
}

func (s *LocationConsumer) handle(d delivery) {
	if err := s.svc.ProcessUpdate(context.Background(), d.upd); err != nil {
		s.log.Error().Err(err).Int64("object_id", d.upd.ObjectID).Msg("process update failed, requeueing")
		_ = d.msg.Nack(false, true)
		return
	}
	_ = d.msg.Ack(false)
}

func shardIndex(objectID int64, shards int) int {
	if objectID < 0 {
		objectID = -objectID
	}
	return int(objectID % int64(shards))
}

func toLocationUpdate(raw *locationMessage) *domain.LocationUpdate {
	upd := &domain.LocationUpdate{
		UserID:     raw.UserID,
		ObjectID:   raw.ObjectID,
		ObjectName: raw.ObjectName,
		ObjectType: raw.ObjectType,
		Latitude:   raw.Latitude,
		Longitude:  raw.Longitude,
	}
	// A partial definition counts as no geofence at all.
	if raw.GeofenceCenterLat != nil && raw.GeofenceCenterLng != nil && raw.GeofenceRadiusMeters != nil {
		upd.Geofence = &domain.Geofence{
			CenterLat:    *raw.GeofenceCenterLat,
			CenterLng:    *raw.GeofenceCenterLng,
			RadiusMeters: *raw.GeofenceRadiusMeters,
		}
	}
	return upd
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.UserID <= 0 {
		return fmt.Errorf("userId: required")
	}
	if msg.ObjectID <= 0 {
		return fmt.Errorf("objectId: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	return nil
}
