package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/config"
	"github.com/mauv0809/arena/internal/database"
	server "github.com/mauv0809/arena/internal/http"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/notifier"
	"github.com/mauv0809/arena/internal/notifier/slack"
	"github.com/mauv0809/arena/internal/performance"
	"github.com/mauv0809/arena/internal/processor"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/scheduler"
	"github.com/mauv0809/arena/internal/tournament"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var publisher pubsub.PubSubClient
	if cfg.ProjectID != "" {
		client, teardown, err := pubsub.New(cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer teardown()
		publisher = client
	} else {
		log.Warn("GCP_PROJECT not set, events are only logged")
		publisher = pubsub.NewLogOnly()
	}

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Enabled() {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack not configured, notifications disabled")
	}

	hub := live.NewHub(nil)
	matchStore := match.New(db)
	perfStore := performance.New(db)
	achStore := achievement.New(db)
	tournaments := tournament.NewService(db, tournament.NewStore(db), matchStore, publisher, hub, metricsSvc, cfg.Scoring.Points)
	proc := processor.New(
		db,
		matchStore,
		performance.NewAggregator(perfStore),
		achievement.NewEvaluator(achStore),
		tournaments,
		publisher,
		hub,
		notif,
		metricsSvc,
		cfg.Season,
	)

	s := server.NewServer(server.Services{
		Tournaments:  tournaments,
		Matches:      match.NewService(matchStore, hub, metricsSvc),
		Processor:    proc,
		Performances: perfStore,
		Achievements: achievement.NewService(achStore),
		Live:         hub,
		Notifier:     notif,
	}, metricsSvc, metricsHandler, cfg)

	sched, err := scheduler.New(tournaments, cfg.LifecycleInterval)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %s", err)
	}
	sched.Start()

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if err := sched.Shutdown(); err != nil {
		log.Error("Scheduler shutdown failed", "error", err)
	}
	log.Info("Server process shutting down")
}
