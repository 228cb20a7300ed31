package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/iamolegga/goqite"
	"github.com/iamolegga/goqite/jobs"

	"github.com/fleetwire/fleetwire/internal/auth"
	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/config"
	"github.com/fleetwire/fleetwire/internal/infra/db"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
	"github.com/fleetwire/fleetwire/internal/infra/metrics"
	"github.com/fleetwire/fleetwire/internal/infra/server"
	"github.com/fleetwire/fleetwire/internal/infra/tracing"
	_ "github.com/fleetwire/fleetwire/internal/infra/validation"
	"github.com/fleetwire/fleetwire/internal/openapi"
	"github.com/fleetwire/fleetwire/internal/payments"
	"github.com/fleetwire/fleetwire/internal/retention"
	"github.com/fleetwire/fleetwire/internal/webhooks"
	"github.com/fleetwire/fleetwire/pkg/gracefulshutdown"
)

const (
	healthcheckProbePath = "/healthz"
	deliverJobName       = "deliver"
)

func main() {
	//
	// Infra
	//

	gracefulshutdown.SubscribeForShutdown()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Env); err != nil {
		slog.Error("failed to set up logger", "error", err)
		os.Exit(1)
	}
	slog.Debug("starting fleetwire", "env", cfg.Env, "driver", cfg.Database.Driver)

	if err := db.Migrate(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Namespace); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	database, err := db.New(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Namespace)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx := gracefulshutdown.GetServerBaseContext()

	//
	// Services
	//

	var flavor goqite.SQLFlavor
	switch cfg.Database.Driver {
	case "postgres":
		flavor = goqite.SQLFlavorPostgreSQL
	case "sqlite":
		flavor = goqite.SQLFlavorSQLite
	default:
		slog.Error("unsupported database driver", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	queueCfg := cfg.Webhooks.Queue
	webhookQueue := goqite.New(goqite.NewOpts{
		DB:         database.DB,
		Name:       queueCfg.Name,
		SQLFlavor:  flavor,
		MaxReceive: queueCfg.MaxReceive,
		Timeout:    queueCfg.Timeout,
	})

	store := webhooks.NewStore(database)
	tracker := deliveries.NewRepo(database, cfg.Webhooks.MaxAttempts)

	seeded, err := store.SeedEndpoints(ctx, cfg.Tenants)
	if err != nil {
		slog.Error("failed to seed endpoints", "error", err)
		os.Exit(1)
	}

	router, err := webhooks.NewRouter()
	if err != nil {
		slog.Error("failed to create event router", "error", err)
		os.Exit(1)
	}
	if err := loadRoutes(ctx, store, router, cfg.Tenants); err != nil {
		slog.Error("failed to load endpoint subscriptions", "error", err)
		os.Exit(1)
	}
	slog.Info("endpoints loaded", "count", seeded)

	emitters := webhooks.Emitters{webhooks.LogEmitter{}}
	if cfg.Events.RedisURL != "" {
		redisEmitter, err := webhooks.NewRedisEmitter(cfg.Events.RedisURL, cfg.Events.Channel)
		if err != nil {
			slog.Error("failed to create redis emitter", "error", err)
			os.Exit(1)
		}
		defer redisEmitter.Close()
		emitters = append(emitters, redisEmitter)
	}

	scheduler := webhooks.NewQueueScheduler(webhookQueue, deliverJobName)
	webhookService := webhooks.NewService(store, router, scheduler)

	// Start delivery worker
	webhookWorker := webhooks.NewWorker(
		store,
		tracker,
		webhooks.NewSender(webhooks.SenderOptsFromConfig(cfg.Webhooks)),
		scheduler,
		emitters,
		webhooks.PolicyFromConfig(cfg.Webhooks),
	)
	runner := jobs.NewRunner(jobs.NewRunnerOpts{
		Limit:        queueCfg.Concurrency,
		PollInterval: queueCfg.PollInterval,
		Queue:        webhookQueue,
		Log:          slog.Default(),
	})
	runner.Register(deliverJobName, webhookWorker.Handle)
	go runner.Start(ctx)

	// Inbound payment webhooks are forwarded as tenant "payment.*" events
	inboundRepo := payments.NewRepo(database)
	forwarder := payments.NewForwarder(webhookService.Forward)
	receiver := payments.NewReceiver(
		payments.NewStaticSecrets(cfg.Payments.Providers),
		inboundRepo,
		forwarder,
		payments.NewGatewayProvider(cfg.Webhooks.SignatureHeader),
		payments.NewLemonSqueezyProvider(),
		payments.NewStandardProvider(),
	).WithReplayWindow(cfg.Retention.Period, time.Now)

	pruner := retention.NewPruner(cfg.Retention.Period, map[string]retention.Target{
		"webhook_events":         store,
		"delivery_attempts":      tracker,
		"inbound_payment_events": inboundRepo,
	})
	go pruner.Start(ctx, cfg.Retention.Interval)

	//
	// Routes
	//

	reflector := openapi.NewReflector()

	routes := []httptools.Route{
		webhooks.NewRouteEvents(webhookService, tracker),
		deliveries.NewRouteHistory(tracker),
		deliveries.NewRouteFailed(tracker),
		payments.NewRouteWebhook(receiver),
	}
	mux := http.NewServeMux()
	hideRouteMiddleware := httptools.LocalOnly(http.StatusNotFound)
	if cfg.Metrics.Enable {
		metricsHandler := metrics.Init(cfg.Metrics.GoMetrics)
		mux.Handle(
			"GET "+cfg.Metrics.Path,
			httptools.Wrap(metricsHandler, hideRouteMiddleware),
		)
	}
	mux.Handle(
		"GET "+healthcheckProbePath,
		httptools.Wrap(
			nil,
			hideRouteMiddleware,
			gracefulshutdown.HealthCheckMiddleware,
			db.HealthCheckMiddleware(database),
		),
	)
	for _, route := range routes {
		route.Register(mux, reflector)
	}
	openapi.NewRoute(reflector).Register(mux, reflector)

	//
	// Middlewares
	//

	// skip tracing, logging and metrics for unnecessary endpoints
	// skip auth for healthz, metrics, docs and provider callbacks (verified by signature)
	middlewares := []httptools.Middleware{
		httptools.Skip(tracing.Middleware, healthcheckProbePath, cfg.Metrics.Path),
		httptools.Skip(logger.Middleware, healthcheckProbePath, cfg.Metrics.Path),
		logger.RecoveryMiddleware,
		httptools.Skip(
			auth.Middleware(cfg.Auth.APIKey),
			healthcheckProbePath,
			cfg.Metrics.Path,
			"/openapi.json",
			"/docs",
			"POST /v1/webhook/*/*",
		),
	}
	if cfg.Metrics.Enable {
		middlewares = append(
			middlewares,
			httptools.Skip(
				metrics.Middleware,
				healthcheckProbePath,
				cfg.Metrics.Path,
			),
		)
	}

	//
	// Start server
	//

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := server.New(addr, httptools.Wrap(mux, middlewares...))
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()
	gracefulshutdown.WaitForShutdown(srv)
}

// loadRoutes builds the routing policies of every configured endpoint.
func loadRoutes(
	ctx context.Context,
	store *webhooks.Store,
	router *webhooks.Router,
	tenants []config.TenantConfig,
) error {
	for _, tenant := range tenants {
		endpoints, err := store.ListEndpoints(ctx, tenant.ID)
		if err != nil {
			return err
		}
		for _, ep := range endpoints {
			if err := router.SetEndpoint(ep); err != nil {
				return err
			}
		}
	}
	return nil
}
