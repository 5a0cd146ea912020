package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/config"
	"github.com/consultafacil/portal-api/internal/handler"
	appointmentHandler "github.com/consultafacil/portal-api/internal/handler/appointment"
	authHandler "github.com/consultafacil/portal-api/internal/handler/auth"
	boardHandler "github.com/consultafacil/portal-api/internal/handler/board"
	doctorHandler "github.com/consultafacil/portal-api/internal/handler/doctor"
	"github.com/consultafacil/portal-api/internal/middleware"
	"github.com/consultafacil/portal-api/internal/router"
	authService "github.com/consultafacil/portal-api/internal/service/auth"
	"github.com/consultafacil/portal-api/internal/service/board"
	"github.com/consultafacil/portal-api/internal/service/booking"
	"github.com/consultafacil/portal-api/internal/service/directory"
	"github.com/consultafacil/portal-api/internal/service/patient"
	"github.com/consultafacil/portal-api/internal/session"
	"github.com/consultafacil/portal-api/internal/worker"
	"github.com/consultafacil/portal-api/pkg/logger"
	"github.com/consultafacil/portal-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})

	m := metrics.NewMetrics("portal", "api")

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal(err, "failed to initialize session store")
	}
	tokens := session.NewTokenManager(cfg.Session.Secret, cfg.Session.ExpiryHours)

	client := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, log.With("component", "apiclient"), m)

	authSvc := authService.NewService(client, store, tokens, log.With("component", "auth"))
	bookingSvc := booking.NewService(client, log.With("component", "booking"), m)
	boardSvc := board.NewService(client, log.With("component", "board"), m)
	patientSvc := patient.NewService(client, log.With("component", "patient"))
	directorySvc := directory.NewService(client, cfg.Directory.CacheTTL, log.With("component", "directory"), m)

	authMw := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMw,
		authHandler.NewHandler(authSvc),
		doctorHandler.NewHandler(directorySvc),
		appointmentHandler.NewHandler(bookingSvc, patientSvc, directorySvc),
		boardHandler.NewHandler(boardSvc),
		handler.NewHandler(),
		router.RouterConfig{
			RateLimit:  rate.Limit(cfg.RateLimit.RPS),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	refreshCtx, stopRefresher := context.WithCancel(context.Background())
	refresher := worker.NewBoardRefresher(boardSvc, cfg.Board.RefreshInterval, log.With("component", "refresher"))
	go refresher.Start(refreshCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	stopRefresher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
	log.Info("server stopped")
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	ttl := time.Duration(cfg.Session.ExpiryHours) * time.Hour
	switch cfg.Session.Store {
	case "redis":
		return session.NewRedisStore(cfg.Redis.URL, ttl)
	default:
		return session.NewMemoryStore(ttl, cfg.Session.FilePath), nil
	}
}
