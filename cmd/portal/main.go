// Command portal serves the laboratory reservation portal.
//
//	@title			Lab Portal
//	@version		1.0
//	@description	Laboratory reservation portal in front of the reservations API.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/upslab/labportal/docs"
	"github.com/upslab/labportal/internal/api"
	"github.com/upslab/labportal/internal/api/metrics"
	"github.com/upslab/labportal/internal/api/middleware"
	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
	"github.com/upslab/labportal/internal/core/service"
	"github.com/upslab/labportal/internal/infrastructure/apiclient"
	mongodb "github.com/upslab/labportal/internal/infrastructure/db/mongo"
	redisdb "github.com/upslab/labportal/internal/infrastructure/db/redis"
	opshttp "github.com/upslab/labportal/internal/infrastructure/http"
	"github.com/upslab/labportal/internal/infrastructure/http/handlers"
	"github.com/upslab/labportal/internal/infrastructure/queue"
	sessionstore "github.com/upslab/labportal/internal/infrastructure/session"
	"github.com/upslab/labportal/internal/infrastructure/token"
	"github.com/upslab/labportal/internal/pkg/config"
	"github.com/upslab/labportal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "labportal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]handlers.Check{}

	// --- Remote API ---
	client := apiclient.New(apiclient.Config{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		Observer: metrics.ObserveUpstream,
		Logger:   logger.Component("apiclient"),
	})
	checks["upstream"] = handlers.UpstreamCheck(nil, client.BaseURL())

	// --- Transaction audit log ---
	var repo ports.TransactionRepository
	if cfg.Mongo.Enabled {
		mc, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "labportal"})
		if err != nil {
			return err
		}
		defer func() {
			if err := mc.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()
		txRepo := mongodb.NewTransactionRepository(db, cfg.Mongo.Collection)
		if err := txRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("transaction indexes not ensured")
		}
		repo = txRepo
		checks["mongodb"] = handlers.MongoCheck(db)
	}

	// --- Submission guard ---
	var guard ports.SubmissionGuard
	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		guard = redisdb.NewSubmissionGuard(rdb, "labportal:")
		checks["redis"] = handlers.RedisCheck(rdb)
	}

	dispatcher := queue.NewDispatcher(cfg.Workers.Count, cfg.Workers.QueueSize, repo, logger.Component("transactions"))
	dispatcher.OnDrop = metrics.TransactionsDroppedTotal.Inc
	dispatcher.OnDepth = func(delta int) { metrics.TransactionsQueueDepth.Add(float64(delta)) }
	dispatcher.Start()

	// --- Services ---
	accounts := service.NewAccountService(client, client.Admin(), logger.Component("accounts"))
	reservations := service.NewReservationService(client, client.Admin(), guard, cfg.Redis.SubmissionWindow, logger.Component("reservations"))

	decoder := token.NewDecoder(cfg.Session.VerifyKey)
	if !decoder.Verifying() {
		log.Warn().Msg("SESSION_VERIFY_KEY not set, session tokens are decoded without signature checks")
	}

	deps := api.Deps{
		Accounts:     accounts,
		Reservations: reservations,
		Session: middleware.SessionConfig{
			Decoder: decoder,
			Clock:   service.SystemClock{},
			Auth:    client,
			Cookie: sessionstore.CookieOptions{
				Secure: cfg.Session.CookieSecure,
				MaxAge: cfg.Session.CookieMaxAge,
			},
			Logger:      logger.Component("session"),
			Subscribers: []func(domain.SessionEvent){metrics.ObserveSession},
		},
		Transactions: dispatcher,
		LogoutWait:   cfg.Session.LogoutWait,
		Logger:       logger.Component("http"),
		Ops: opshttp.OpsConfig{
			Checks:  checks,
			Swagger: cfg.Development(),
		},
	}
	if cfg.Metrics.Enabled {
		deps.Registerer = prometheus.DefaultRegisterer
		deps.Ops.Gatherer = prometheus.DefaultGatherer
	}
	e := api.NewRouter(deps)

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("api", client.BaseURL()).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("transaction queue not drained")
	}
	return nil
}
