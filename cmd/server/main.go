package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Object-Tracker/geofence-service/config"
	"github.com/Object-Tracker/geofence-service/module/core"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel)

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq")
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt")
	}
	defer mqttClient.Disconnect(250)

	fcmClient, err := config.NewFirebaseMessaging(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase")
	}
	if fcmClient == nil {
		log.Warn().Msg("firebase credentials not configured, push notifications disabled")
	}

	coreModule, err := core.Build(db, amqpConn, mqttClient, fcmClient, cfg.ConsumerWorkers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("core module")
	}

	if err := coreModule.StartConsumer(); err != nil {
		log.Fatal().Err(err).Msg("start consumer")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := coreModule.Shutdown(); err != nil {
		log.Error().Err(err).Msg("consumer shutdown")
	}
}
