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
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	"github.com/BruksfildServices01/barberconnect/internal/config"
	dbpkg "github.com/BruksfildServices01/barberconnect/internal/db"
	"github.com/BruksfildServices01/barberconnect/internal/infra/cache"
	"github.com/BruksfildServices01/barberconnect/internal/infra/payments"
	"github.com/BruksfildServices01/barberconnect/internal/infra/sms"
	"github.com/BruksfildServices01/barberconnect/internal/infra/storage"
	"github.com/BruksfildServices01/barberconnect/internal/logging"
	"github.com/BruksfildServices01/barberconnect/internal/routes"
)

func main() {

	cfg := config.Load()
	logging.Setup(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)

	dispatcher := audit.NewDispatcher(audit.New(db))
	defer dispatcher.Close()

	pin := payments.NewPinClient(cfg.PinBaseURL(), cfg.PinSecretKey)

	deps := routes.Deps{
		Audit:    dispatcher,
		Payments: payments.NewStripeGateway(cfg.StripeSecretKey),
		Charges:  pin,
		Cards:    pin,
		SMS:      sms.NewClickSend(sms.ClickSendBaseURL, cfg.ClickSendUsername, cfg.ClickSendAPIKey, cfg.ClickSendFrom),
	}

	if store := storage.NewS3Store(cfg); store != nil {
		deps.Store = store
	} else {
		log.Warn().Msg("S3_BUCKET not set, logo uploads disabled")
	}

	counter, err := cache.NewRedisCounter(context.Background(), cfg.RedisURL)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
	case counter != nil:
		deps.Limiter = counter
		defer counter.Close()
	}

	r := routes.NewRouter()
	routes.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
