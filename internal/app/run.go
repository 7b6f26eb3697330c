package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gaugeboard/internal/config"
	"gaugeboard/internal/db"
	"gaugeboard/internal/httpapi"
	"gaugeboard/internal/imagestore"
	"gaugeboard/internal/migrate"
	"gaugeboard/internal/modules/photos"
	photoviews "gaugeboard/internal/modules/photos/views"
	"gaugeboard/internal/mqtt"
	"gaugeboard/internal/ocr"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"uploadDir", cfg.UploadDir,
		"dbDriver", cfg.Driver,
		"dbPath", cfg.Path,
		"ocrEnabled", cfg.OCREnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(dbConn); err != nil {
		return err
	}

	var ok int
	err = dbConn.QueryRow(`SELECT 1`).Scan(&ok)
	if err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	slog.Info("database connection successful")

	if err := photoviews.LoadTemplates(); err != nil {
		return err
	}

	store, err := imagestore.New(cfg.UploadDir)
	if err != nil {
		return err
	}
	recognizer := ocr.FromConfig(cfg)

	mux := httpapi.NewMux(dbConn, cfg.StaticDir)
	photoService := photos.RegisterFeature(mux, dbConn, store, recognizer)

	// Broker ingest is optional: no broker configured means HTTP only.
	var subscriber *mqtt.Subscriber
	if cfg.MQTTBroker != "" {
		subscriber = mqtt.NewSubscriber(cfg, slog.Default())
		subscriber.SetMessageHandler(func(ctx context.Context, frame []byte) error {
			_, err := photoService.ProcessUpload(ctx, frame)
			return err
		})

		// Use a short timeout for initial MQTT connect so we don't block startup when broker is down.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		slog.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
