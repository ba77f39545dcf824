package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mqttbroker "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"garden-hub/backend/internal/alerting"
	"garden-hub/backend/internal/api"
	"garden-hub/backend/internal/config"
	"garden-hub/backend/internal/hub"
	"garden-hub/backend/internal/mqttapi"
	"garden-hub/backend/internal/narrative"
	"garden-hub/backend/internal/notify"
	sharedapi "garden-hub/backend/internal/shared/api"
	"garden-hub/backend/internal/shared/helpers"
	"garden-hub/backend/pkg/mqtt"
	"garden-hub/backend/pkg/router"
	"garden-hub/backend/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	sigCtx, sigCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer sigCancel()

	config, err := config.New()
	if err != nil {
		fatalIfErr(slog.Default(), fmt.Errorf("failed to create config: %w", err))
	}

	defer func() {
		if err := config.Close(); err != nil {
			slog.Default().Error("failed to close config", utils.ErrAttr(err))
		}
	}()

	logger := helpers.GetLogger(config)

	if err := helpers.RunMigrations(logger, config); err != nil {
		fatalIfErr(logger, fmt.Errorf("failed to run migrations: %w", err))
	}

	db, err := sql.Open(config.Dialect.Driver(), config.Database)
	fatalIfErr(logger, err)

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", utils.ErrAttr(err))
		}
	}()

	// Builders
	rb, err := router.NewRouteBuilder(logger, "Garden Hub API", utils.GetVersionShort())
	fatalIfErr(logger, err)

	mb, err := mqtt.NewMQTTBuilder(logger, mqtt.MQTTClientOptions{
		BrokerURL: config.MQTTBroker,
		ClientID:  config.MQTTClientID,
		Username:  config.MQTTUsername,
		Password:  config.MQTTPassword,
	})
	fatalIfErr(logger, err)

	// Push notifications are optional; without a URL the dispatcher
	// suppresses every send.
	var notifier alerting.Notifier

	if config.NotifyURL != "" {
		sender, err := notify.New(logger, config.NotifyURL)
		fatalIfErr(logger, err)

		notifier = sender
	}

	narratives := narrative.NewClient(logger, config.NarrativeURL, config.NarrativeTimeout)

	services := hub.NewServices(sigCtx, logger, db, config.Dialect, mb.Client(), notifier, narratives)
	apiHandler := api.NewHandler(logger, services)
	mqttHandler := mqttapi.NewHandler(logger, services)

	registerHTTPHandlers(logger, rb, mb, apiHandler)
	registerMQTTHandlers(logger, mb, mqttHandler)

	go func() {
		if err := mb.Connect(); err != nil {
			logger.Error("Failed to connect to MQTT broker", utils.ErrAttr(err))
		}
	}()

	go services.RunRecorder(sigCtx, config.SnapshotInterval)

	//  MQTT Broker
	mqttAddr := fmt.Sprintf(":%d", config.MQTTBrokerPort)
	mqttBroker, err := getMQTTServer(logger, mqttAddr)
	fatalIfErr(logger, err)

	go func() {
		logger.Info("MQTT broker listening", slog.String("address", mqttAddr))

		if err := mqttBroker.Serve(); err != nil {
			logger.Error("MQTT broker failed", utils.ErrAttr(err))
			sigCancel()
		}
	}()

	// HTTP Server
	httpServer := sharedapi.NewHTTPServer(logger, fmt.Sprintf(":%d", config.Port), rb.Router())
	httpServer.StartOnBackground(sigCancel)

	// Wait for signal (either OS or some failure)
	<-sigCtx.Done()
	logger.Info("received signal, shutting down...")

	// Lock the door before going down so a pending auto-lock is not lost.
	if err := services.Door.Lock(context.Background()); err != nil {
		logger.Error("failed to lock door on shutdown", utils.ErrAttr(err))
	}

	logger.Info("http server shutting down...")

	if err := httpServer.ShutdownWithDefaultTimeout(); err != nil {
		logger.Error("http server shutdown failed", utils.ErrAttr(err))
	}

	logger.Info("disconnecting from MQTT broker...")
	mb.Disconnect()

	logger.Info("mqtt broker shutting down...")

	if err := mqttBroker.Close(); err != nil {
		logger.Error("mqtt broker shutdown failed", utils.ErrAttr(err))
	}

	logger.Info("server exited gracefully")
}

func getMQTTServer(l *slog.Logger, addr string) (*mqttbroker.Server, error) {
	server := mqttbroker.New(&mqttbroker.Options{
		Logger: l.With(slog.String("component", "mqtt-broker")),
	})
	tcp := listeners.NewTCP(listeners.Config{ID: "tcp", Address: addr})

	err := server.AddListener(tcp)
	if err != nil {
		return nil, err
	}

	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, err
	}

	return server, nil
}

// registerHTTPHandlers registers all HTTP handlers.
func registerHTTPHandlers(l *slog.Logger, rb *router.RouteBuilder, mb *mqtt.MQTTBuilder, h *api.Handler) {
	l.Info("Registering HTTP handlers...")

	mw := sharedapi.NewMiddlewareHandler(l)

	// Request ID first so the logger and recoverer can report it
	rb.Use(mw.RequestIDMiddleware)
	rb.Use(mw.LoggerMiddleware)
	rb.Use(mw.RecoveryMiddleware)

	h.RegisterPing("/api/ping", rb)
	h.RegisterHealth("/api/health", rb)
	h.RegisterVersion("/api/version", rb)

	h.RegisterDoorStatus("/api/door", rb)
	h.RegisterUnlock("/api/door/unlock", rb)
	h.RegisterLock("/api/door/lock", rb)
	h.RegisterChangeSecret("/api/door/secret", rb)
	h.RegisterDoorSessions("/api/door/sessions", rb)

	h.RegisterGetSettings("/api/settings", rb)
	h.RegisterUpdateSettings("/api/settings", rb)
	h.RegisterResetSettings("/api/settings/reset", rb)

	h.RegisterDeviceState("/api/devices", rb)
	h.RegisterToggleDevice("/api/devices/{deviceID}/toggle", rb)

	h.RegisterSnapshots("/api/history/snapshots", rb)
	h.RegisterNarrative("/api/narratives/{kind}", rb)

	// Docs last: the OpenAPI document is assembled from the routes above.
	h.RegisterMQTTOperations("/api/docs/mqtt", rb, mb)
	h.RegisterOpenAPIJSON("/api/docs/openapi.json", rb)
	h.RegisterOpenAPIYAML("/api/docs/openapi.yaml", rb)

	l.Info("HTTP handlers registered successfully")
}

// registerMQTTHandlers registers all MQTT handlers.
func registerMQTTHandlers(l *slog.Logger, mb *mqtt.MQTTBuilder, h *mqttapi.Handler) {
	l.Info("Registering MQTT handlers...")

	// Telemetry operations
	h.RegisterSensorTelemetrySubscribe(mb)

	// Control operations
	h.RegisterDeviceCommandPublish(mb)
	h.RegisterAlertPublish(mb)

	l.Info("MQTT handlers registered successfully")
}

func fatalIfErr(l *slog.Logger, err error) {
	if err == nil {
		return
	}

	l.Error("error", utils.ErrAttr(err))
	os.Exit(1)
}
