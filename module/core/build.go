package core

import (
	"database/sql"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	handler "github.com/Object-Tracker/geofence-service/module/core/internal/handler/http"
	"github.com/Object-Tracker/geofence-service/module/core/internal/handler/subscriber"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database/postgres"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/publisher"
	fcmpub "github.com/Object-Tracker/geofence-service/module/core/internal/repository/publisher/fcm"
	mqttpub "github.com/Object-Tracker/geofence-service/module/core/internal/repository/publisher/mqtt"
	"github.com/Object-Tracker/geofence-service/module/core/service"
)

type Module struct {
	GeofenceSvc     *service.GeofenceService
	NotificationSvc *service.NotificationService

	notifier *service.Notifier
	handler  *handler.NotificationHandler
	consumer *subscriber.LocationConsumer
}

// Build wires the core module. fcmClient may be nil; in that case the push
// sink runs disabled.
func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, fcmClient *messaging.Client, workers int, log zerolog.Logger) (*Module, error) {
	objects := postgres.NewTrackedObjectRepo()
	notifications := postgres.NewNotificationRepo()
	users := postgres.NewUserRepo()
	tx := postgres.NewTransactor(db)

	broadcast := mqttpub.NewNotificationBroadcaster(mqttClient)
	var push publisher.PushSender
	if fcmClient != nil {
		push = fcmpub.NewPushSender(fcmClient)
	}

	notifier := service.NewNotifier(db, notifications, users, broadcast, push, log)
	geofenceSvc := service.NewGeofenceService(tx, objects, notifier, log)
	notificationSvc := service.NewNotificationService(db, notifications, objects)

	h := handler.NewNotificationHandler(notificationSvc)

	consumer, err := subscriber.NewLocationConsumer(amqpConn, geofenceSvc, workers, log)
	if err != nil {
		return nil, fmt.Errorf("location consumer: %w", err)
	}

	return &Module{
		GeofenceSvc:     geofenceSvc,
		NotificationSvc: notificationSvc,
		notifier:        notifier,
		handler:         h,
		consumer:        consumer,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartConsumer() error {
	return m.consumer.Start()
}

// Shutdown stops the consumer and drains in-flight push sends.
func (m *Module) Shutdown() error {
	err := m.consumer.Stop()
	m.notifier.Wait()
	return err
}
