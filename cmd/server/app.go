package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	identityhandler "protocolo/internal/identity/handler"
	"protocolo/internal/identity/policy"
	"protocolo/internal/identity/revocation"
	identityservice "protocolo/internal/identity/service"
	identitystore "protocolo/internal/identity/store"
	jwttoken "protocolo/internal/jwt_token"
	"protocolo/internal/platform/config"
	"protocolo/internal/platform/database"
	"protocolo/internal/platform/metrics"
	"protocolo/internal/platform/middleware"
	"protocolo/internal/platform/redis"
	processhandler "protocolo/internal/process/handler"
	processmetrics "protocolo/internal/process/metrics"
	processservice "protocolo/internal/process/service"
	processstore "protocolo/internal/process/store"
	"protocolo/pkg/platform/audit"
	"protocolo/pkg/platform/audit/publisher"
	kafkasink "protocolo/pkg/platform/audit/publishers/kafka"
	"protocolo/pkg/platform/audit/store/sqlstore"
	"protocolo/pkg/platform/httputil"
	"protocolo/pkg/platform/middleware/admin"
	"protocolo/pkg/platform/middleware/auth"
	"protocolo/pkg/platform/middleware/metadata"
	"protocolo/pkg/platform/middleware/requesttime"
)

const auditBufferSize = 1024

// app holds the wired application and the resources to release on shutdown.
type app struct {
	router  http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires stores, services and the HTTP router from configuration.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.Close()
		return nil, err
	}

	db, err := database.Open(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return fail(fmt.Errorf("open database: %w", err))
	}
	a.closers = append(a.closers, func() { _ = db.Close() })

	auditPublisher, err := buildAuditPublisher(cfg, db, log)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, auditPublisher.Close)

	revocations, err := buildRevocationList(ctx, cfg, log)
	if err != nil {
		return fail(err)
	}

	httpMetrics := metrics.NewWithRegisterer(reg)
	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	accessPolicy := policy.New()

	identity := identityservice.New(identitystore.New(), jwtService, revocations, accessPolicy,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditPublisher),
		identityservice.WithMetrics(httpMetrics),
		identityservice.WithTokenTTL(cfg.Auth.TokenTTL),
	)
	if cfg.Auth.SeedFile != "" {
		seeds, err := identitystore.LoadSeed(cfg.Auth.SeedFile)
		if err != nil {
			return fail(err)
		}
		created, err := identity.SeedUsers(ctx, seeds)
		if err != nil {
			return fail(fmt.Errorf("seed users: %w", err))
		}
		log.InfoContext(ctx, "seeded users", "created", created, "file", cfg.Auth.SeedFile)
	}

	processes := processservice.New(processstore.NewSQL(db), accessPolicy,
		processservice.WithLogger(log),
		processservice.WithAuditPublisher(auditPublisher),
		processservice.WithMetrics(processmetrics.NewWithRegisterer(reg)),
		processservice.WithTx(newProcessSQLTx(db, cfg.Server.TxTimeout)),
		processservice.WithLocation(cfg.Location()),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Latency(httpMetrics))
	r.Use(middleware.JSONContentType)

	r.Get("/health", healthHandler(db))

	identityHTTP := identityhandler.New(identity, log)
	identityHTTP.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), identity, identity, log))
		identityHTTP.RegisterAuthenticated(r)
		processhandler.New(processes, log).Register(r)
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireSuperuser(log))
			identityHTTP.RegisterAdmin(r)
		})
	})

	a.router = r
	return a, nil
}

// buildAuditPublisher persists audit events in the database and, when
// brokers are configured, also publishes them to Kafka. Writes are async so
// a slow sink never holds a request or a transaction.
func buildAuditPublisher(cfg *config.Config, db *sqlx.DB, log *slog.Logger) (*publisher.Publisher, error) {
	stores := audit.Tee{sqlstore.New(db)}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := kafkasink.Dial(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			kafkasink.WithMetrics(kafkasink.NewMetrics()),
			kafkasink.WithBreaker(cfg.Kafka.BreakerThreshold, cfg.Kafka.BreakerCooldown, nil),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka audit sink: %w", err)
		}
		stores = append(stores, sink)
		log.Info("publishing audit events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	return publisher.NewPublisher(stores,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
	), nil
}

func buildRevocationList(ctx context.Context, cfg *config.Config, log *slog.Logger) (identityservice.TokenRevocationList, error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if client == nil {
		log.Warn("redis not configured, token revocation is local to this instance")
		return revocation.NewInMemoryTRL(), nil
	}
	return revocation.NewRedisTRL(client.Client), nil
}

func healthHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
