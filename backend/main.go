package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vetclinic/m/internal/api"
	"vetclinic/m/internal/backup"
	"vetclinic/m/internal/config"
	"vetclinic/m/internal/database"
	"vetclinic/m/internal/migrations"
	"vetclinic/m/internal/seed"
	"vetclinic/m/internal/store"
	"vetclinic/m/internal/syncq"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.Connect(cfg.DatabaseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := migrations.Run(db, log); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, database.NewDocumentRepository(db), seed.Defaults(log), store.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("unable to open clinic document")
	}

	if cfg.CatalogCSV != "" {
		if _, err := seed.LoadProducts(ctx, st, cfg.CatalogCSV, log); err != nil {
			log.WithError(err).Warn("product catalog not loaded")
		}
	}

	var tx syncq.Transmitter = syncq.LogTransmitter{Log: log}
	if cfg.SyncEndpoint != "" {
		tx = syncq.NewHTTPTransmitter(cfg.SyncEndpoint)
	}
	drainer := syncq.NewDrainer(st, tx, cfg.SyncInterval, log)
	go drainer.Run(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-st.Changes():
				drainer.Notify()
			}
		}
	}()

	backups := backup.NewScheduler(st, database.NewSnapshotRepository(db), backup.Config{
		Interval:      cfg.BackupInterval,
		CheckInterval: cfg.BackupCheckInterval,
		Keep:          cfg.BackupKeep,
	}, log)
	go backups.Run(ctx)

	handler := api.New(st, drainer, backups, cfg.Secret, cfg.AllowedOrigins, log)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("clinic server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
