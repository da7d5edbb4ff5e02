package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"softacc-backend/config"
	_ "softacc-backend/docs" // Important for Swagger
	v1 "softacc-backend/internal/delivery/http/v1"
	"softacc-backend/internal/usecase"
	"softacc-backend/pkg/logger"
	"softacc-backend/pkg/mail"
	"softacc-backend/pkg/redis"
	"softacc-backend/pkg/security"
	"softacc-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title           Softacc Contact API
// @version         1.0
// @description     Relays contact form submissions from the Softacc website to the company inbox.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	if err := run(); err != nil {
		logger.Log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Server exiting")
}

// run owns every resource so its defers have finished before main exits.
func run() error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting softacc backend", "port", cfg.Port)

	environment := "development"
	if cfg.GinMode == gin.ReleaseMode {
		environment = "production"
	}
	secLog := security.InitSecurityLogger("softacc-backend", environment)
	defer func() { _ = secLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Check SMTP relay settings. The server still starts without them so
	// the form reports a configuration error instead of a dead endpoint.
	if !cfg.Mail.IsConfigured() {
		logger.Log.Warn("SMTP relay not fully configured - contact form will be unavailable",
			"missing", cfg.Mail.Missing(),
		)
	}

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	var redisCheck func(ctx context.Context) error
	if cfg.UpstashRedisURL != "" {
		initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redis.Initialize(initCtx, redis.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		cancel()
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			redisCheck = redis.HealthCheck
			defer func() { _ = redis.Close() }()
		}
	}

	// 5. Setup UseCases
	validate := validation.New()
	contactUC := usecase.NewContactUsecase(cfg.Mail, mail.NewSMTPRelayFactory(), validate)
	healthUC := usecase.NewHealthUsecase(cfg.Mail.IsConfigured(), redisCheck)

	// 6. Setup Router
	gin.SetMode(cfg.GinMode)
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// verify and send may each take up to the SMTP timeout
		WriteTimeout: 2*cfg.Mail.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful Shutdown
	g.Go(func() error {
		<-gCtx.Done()
		logger.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
