package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/hearth/internal/config"
	"github.com/jwebster45206/hearth/internal/handlers"
	"github.com/jwebster45206/hearth/internal/logger"
	"github.com/jwebster45206/hearth/internal/middleware"
	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/internal/storage"
	"github.com/jwebster45206/hearth/internal/world"
	"github.com/jwebster45206/hearth/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Hearth API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"enter_radius", cfg.EnterRadius,
		"autosave_interval", cfg.AutosaveInterval.String())

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SaveTTL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	broadcaster := events.NewBroadcaster(store.Client(), log)

	w := world.New(world.Options{
		Seed:        cfg.WorldSeed,
		EnterRadius: cfg.EnterRadius,
		Logger:      log,
	})

	autosaver := worker.New(w, worker.Config{
		Slot:      cfg.AutosaveSlot,
		Interval:  cfg.AutosaveInterval,
		Storage:   store,
		Locker:    store,
		Publisher: broadcaster,
	}, log)

	// Resume from the autosave slot when it already holds data.
	if sd, err := store.LoadHouses(storageCtx, autosaver.Slot()); err != nil {
		log.Warn("Failed to read autosave slot", "error", err, "slot", autosaver.Slot().String())
	} else if sd != nil {
		w.Load(*sd)
		log.Info("Resumed from autosave", "slot", autosaver.Slot().String(), "assignments", len(sd.Assignments))
	}

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	residentsHandler := handlers.NewResidentsHandler(w, log)
	mux.Handle("/v1/residents", residentsHandler)
	mux.Handle("/v1/residents/", residentsHandler)

	housesHandler := handlers.NewHousesHandler(w, broadcaster, log)
	mux.Handle("/v1/houses", housesHandler)
	mux.Handle("/v1/houses/", housesHandler)

	mux.Handle("/v1/world/", handlers.NewWorldHandler(w, broadcaster, log))

	savesHandler := handlers.NewSavesHandler(w, store, broadcaster, log)
	mux.Handle("/v1/saves", savesHandler)
	mux.Handle("/v1/saves/", savesHandler)

	mux.Handle("/v1/events", handlers.NewEventsHandler(broadcaster, log))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the event stream stays open.
		IdleTimeout: 60 * time.Second,
	}

	autosaveDone := make(chan struct{})
	go func() {
		defer close(autosaveDone)
		if err := autosaver.Start(); err != nil {
			log.Error("Autosave stopped with error", "error", err)
		}
	}()

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// The final autosave needs storage, so close it last.
	autosaver.Stop()
	<-autosaveDone

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
