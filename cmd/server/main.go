package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/assessment/adapters"
	"htb-gateway/internal/assessment/handler"
	assessmentmetrics "htb-gateway/internal/assessment/metrics"
	"htb-gateway/internal/assessment/ports"
	assessmentstore "htb-gateway/internal/assessment/store"
	"htb-gateway/internal/documents"
	"htb-gateway/internal/platform/config"
	"htb-gateway/internal/platform/httpserver"
	"htb-gateway/internal/platform/kafka"
	"htb-gateway/internal/platform/logger"
	httpmetrics "htb-gateway/internal/platform/metrics"
	"htb-gateway/internal/platform/postgres"
	redisclient "htb-gateway/internal/platform/redis"
	"htb-gateway/internal/ratelimit"
	"htb-gateway/internal/platform/scheduler"
	"htb-gateway/internal/regulations"
	"htb-gateway/migrations"
	audit "htb-gateway/pkg/platform/audit"
	"htb-gateway/pkg/platform/audit/publisher"
	"htb-gateway/pkg/platform/audit/relay"
	auditmemory "htb-gateway/pkg/platform/audit/store/memory"
	auditpostgres "htb-gateway/pkg/platform/audit/store/postgres"
	"htb-gateway/pkg/platform/circuit"
	"htb-gateway/pkg/platform/middleware/auth"
	"htb-gateway/pkg/platform/middleware/request"
	"htb-gateway/pkg/platform/middleware/requesttime"
)

// infra holds the optional backends and the shutdown hooks they registered.
type infra struct {
	db        *sql.DB
	redis     *redisclient.Client
	producer  *kafka.Producer
	outbox    *auditpostgres.Store
	closers   []func()
	healthFns map[string]func(context.Context) error
}

func (i *infra) close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("htb-gateway stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	regs := regulations.Default()
	if cfg.RegulationsFile != "" {
		loaded, err := regulations.Load(cfg.RegulationsFile)
		if err != nil {
			return err
		}
		regs = loaded
	}
	log.Info("regulations loaded", "version", regs.Version, "jurisdiction", regs.Jurisdiction)

	inf, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inf.close()

	subjects, err := buildSubjectHasher(cfg, log)
	if err != nil {
		return err
	}

	assessMetrics := assessmentmetrics.New()
	publisherMetrics := publisher.NewMetrics()
	auditPublisher := buildPublisher(cfg, inf, log, publisherMetrics)
	defer func() {
		if err := auditPublisher.Close(); err != nil {
			log.Warn("audit publisher close failed", "error", err)
		}
	}()

	opts := []assessment.Option{
		assessment.WithLogger(log),
		assessment.WithMetrics(assessMetrics),
		assessment.WithAuditPublisher(auditPublisher),
		assessment.WithBatchLimit(cfg.BatchLimit),
		assessment.WithSubjectHasher(subjects),
	}
	if inf.db != nil {
		opts = append(opts,
			assessment.WithStore(assessmentstore.NewPostgres(inf.db)),
			assessment.WithTransactor(postgres.NewTransactor(inf.db)),
		)
	} else {
		opts = append(opts, assessment.WithStore(assessmentstore.NewInMemory()))
	}
	catalog := documents.Default()
	service := assessment.NewService(regs, buildCredit(cfg, inf, log, assessMetrics, subjects), catalog, opts...)

	sched := scheduler.New(scheduler.WithLogger(log))
	if err := sched.AddJob(cfg.Scheduler.ExpirySchedule, scheduler.NewExpiryJob(service, log)); err != nil {
		return err
	}
	if inf.outbox != nil {
		purge := scheduler.NewOutboxPurgeJob(inf.outbox, cfg.Audit.OutboxRetention, log)
		if err := sched.AddJob(cfg.Scheduler.PurgeSchedule, purge); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	if inf.outbox != nil && inf.producer != nil {
		r := relay.New(inf.outbox, inf.producer, map[audit.EventCategory]string{
			audit.CategoryCompliance: cfg.Kafka.ComplianceTopic,
			audit.CategoryOperations: cfg.Kafka.OperationsTopic,
		},
			relay.WithBatchSize(cfg.Kafka.RelayBatchSize),
			relay.WithInterval(cfg.Kafka.RelayInterval),
			relay.WithLogger(log),
		)
		go func() {
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("outbox relay stopped", "error", err)
			}
		}()
	}

	router := buildRouter(cfg, log, handler.New(service, catalog, log), inf, httpmetrics.New())
	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting htb-gateway", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	inf := &infra{healthFns: map[string]func(context.Context) error{}}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		inf.closers = append(inf.closers, func() { _ = db.Close() })
		if err := migrations.Apply(ctx, db); err != nil {
			inf.close()
			return nil, err
		}
		inf.db = db
		inf.outbox = auditpostgres.New(db)
		inf.healthFns["postgres"] = db.PingContext
		log.Info("postgres persistence enabled")
	} else {
		log.Info("postgres not configured, using in-memory stores")
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		inf.close()
		return nil, err
	}
	if rc != nil {
		inf.redis = rc
		inf.closers = append(inf.closers, func() { _ = rc.Close() })
		inf.healthFns["redis"] = rc.Health
		log.Info("credit report cache enabled", "ttl", cfg.Redis.CreditTTL)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		if inf.outbox == nil {
			log.Warn("kafka brokers set without a database, audit relay disabled")
			return inf, nil
		}
		p, err := kafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			inf.close()
			return nil, err
		}
		inf.closers = append(inf.closers, p.Close)
		if err := p.EnsureTopics(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor,
			cfg.Kafka.ComplianceTopic, cfg.Kafka.OperationsTopic); err != nil {
			inf.close()
			return nil, err
		}
		inf.producer = p
		inf.healthFns["kafka"] = p.Health
		log.Info("audit relay enabled", "brokers", cfg.Kafka.Brokers)
	}
	return inf, nil
}

// buildSubjectHasher keys PPS pseudonyms. Without SUBJECT_HASH_KEY the key is
// random, so stored hashes stop matching after a restart.
func buildSubjectHasher(cfg config.Config, log *slog.Logger) (*audit.SubjectHasher, error) {
	if cfg.Audit.SubjectHashKey == "" {
		log.Warn("SUBJECT_HASH_KEY not set, using a per-process key")
		return audit.NewEphemeralSubjectHasher(), nil
	}
	return audit.NewSubjectHasher([]byte(cfg.Audit.SubjectHashKey))
}

func buildCredit(cfg config.Config, inf *infra, log *slog.Logger, m *assessmentmetrics.Metrics, subjects *audit.SubjectHasher) ports.CreditPort {
	var credit ports.CreditPort
	if cfg.Credit.BureauURL != "" {
		breaker := circuit.New("credit-bureau",
			circuit.WithFailureThreshold(cfg.Credit.FailureThreshold),
			circuit.WithCooldown(cfg.Credit.Cooldown),
		)
		credit = adapters.NewHTTPBureau(cfg.Credit.BureauURL, cfg.Credit.APIKey, cfg.Credit.Timeout, breaker)
	} else {
		log.Warn("credit bureau not configured, using the static bureau")
		credit = adapters.NewStaticCredit()
	}
	if inf.redis != nil {
		credit = adapters.NewCachedCredit(credit, inf.redis.Client, cfg.Redis.CreditTTL, subjects,
			adapters.WithCacheLogger(log),
			adapters.WithCacheMetrics(m),
		)
	}
	return credit
}

func buildPublisher(cfg config.Config, inf *infra, log *slog.Logger, m *publisher.Metrics) *publisher.Publisher {
	var store audit.Store = auditmemory.NewInMemoryStore()
	if inf.outbox != nil {
		store = inf.outbox
	}
	return publisher.NewPublisher(store,
		publisher.WithLogger(log),
		publisher.WithMetrics(m),
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithSampler(publisher.NewSampler(cfg.Audit.OpsSampleRate)),
		publisher.WithCircuitBreaker(circuit.New("audit-store")),
	)
}

func buildRouter(cfg config.Config, log *slog.Logger, h *handler.Handler, inf *infra, m *httpmetrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", request.HeaderRequestID},
		ExposedHeaders:   []string{request.HeaderRequestID, "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(inf.healthFns))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.Server.JWTSigningKey != "" {
			validator := auth.NewHMACValidator(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
			r.Use(auth.RequireBearer(validator, log))
		} else {
			log.Warn("JWT_SIGNING_KEY not set, /htb routes are unauthenticated")
		}
		r.Use(buildRateLimiter(cfg, inf, log).ByMethod)
		h.Register(r)
	})
	return r
}

func buildRateLimiter(cfg config.Config, inf *infra, log *slog.Logger) *ratelimit.Middleware {
	var store ratelimit.Store = ratelimit.NewInMemoryStore()
	if inf.redis != nil {
		store = ratelimit.NewRedisStore(inf.redis.Client)
	}
	return ratelimit.New(store, map[ratelimit.Class]ratelimit.Policy{
		ratelimit.ClassWrite: {Limit: cfg.RateLimit.WriteLimit, Window: cfg.RateLimit.Window},
		ratelimit.ClassRead:  {Limit: cfg.RateLimit.ReadLimit, Window: cfg.RateLimit.Window},
	}, log)
}

func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
