package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

type crossingNotifier interface {
	Record(ctx context.Context, q database.Querier, c *domain.Crossing) (*domain.Notification, error)
	Deliver(ctx context.Context, n *domain.Notification)
}

// GeofenceService decides, for each location update, whether the object
// crossed its geofence boundary, and triggers the notification fanout when
// it did. The row-locked read, the state write and the durable notification
// insert run in one transaction; broadcast and push happen after commit.
type GeofenceService struct {
	tx       database.Transactor
	objects  database.TrackedObjectRepository
	notifier crossingNotifier
	log      zerolog.Logger
}

func NewGeofenceService(tx database.Transactor, objects database.TrackedObjectRepository, notifier crossingNotifier, log zerolog.Logger) *GeofenceService {
	return &GeofenceService{
		tx:       tx,
		objects:  objects,
		notifier: notifier,
		log:      log.With().Str("component", "geofence").Logger(),
	}
}

// ProcessUpdate handles one location update end-to-end. A nil return means
// the update is fully handled and may be acknowledged; a non-nil return
// means the durable unit failed and the message should be redelivered.
func (s *GeofenceService) ProcessUpdate(ctx context.Context, msg *domain.LocationUpdate) error {
	log := s.log.With().Int64("object_id", msg.ObjectID).Int64("user_id", msg.UserID).Logger()
	log.Info().Msg("received location update")

	if msg.Geofence == nil {
		log.Info().Msg("no geofence configured, skipping")
		return nil
	}

	var recorded *domain.Notification

	err := s.tx.WithinTx(ctx, func(q database.Querier) error {
		obj, err := s.objects.GetForUpdate(ctx, q, msg.ObjectID)
		if errors.Is(err, database.ErrNotFound) {
			// Data anomaly, not a retryable fault: redelivery will not make
			// the row appear.
			log.Warn().Msg("tracked object not found, skipping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load tracked object: %w", err)
		}

		distance := haversine(msg.Geofence.CenterLat, msg.Geofence.CenterLng, msg.Latitude, msg.Longitude)
		isOutside := distance > msg.Geofence.RadiusMeters

		if typ := detectCrossing(obj.OutsideGeofence, isOutside); typ != "" {
			n, err := s.notifier.Record(ctx, q, &domain.Crossing{
				Update: msg,
				Type:   typ,
				At:     time.Now(),
			})
			if err != nil {
				return fmt.Errorf("record notification: %w", err)
			}
			recorded = n
		}

		if err := s.objects.SaveBoundaryState(ctx, q, msg.ObjectID, isOutside); err != nil {
			return fmt.Errorf("save boundary state: %w", err)
		}

		log.Info().
			Float64("distance_m", distance).
			Float64("radius_m", msg.Geofence.RadiusMeters).
			Bool("outside", isOutside).
			Msg("boundary state observed")
		return nil
	})
	if err != nil {
		return err
	}

	if recorded != nil {
		s.notifier.Deliver(ctx, recorded)
	}
	return nil
}

// detectCrossing compares the stored side with the observed side. A nil
// wasOutside means the object has never been observed against a geofence;
// the first observation only records, it never emits.
func detectCrossing(wasOutside *bool, isOutside bool) domain.NotificationType {
	if wasOutside == nil {
		return ""
	}
	switch {
	case isOutside && !*wasOutside:
		return domain.GeofenceExit
	case !isOutside && *wasOutside:
		return domain.GeofenceEnter
	}
	return ""
}
