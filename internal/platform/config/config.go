package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	platformstrings "htb-gateway/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	AllowedOrigins []string
	// JWTSigningKey enables bearer auth on /htb routes when set.
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// DatabaseConfig selects Postgres persistence. An empty URL keeps everything
// in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the credit report cache when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CreditTTL    time.Duration
}

// KafkaConfig enables the audit outbox relay when Brokers is non-empty.
type KafkaConfig struct {
	Brokers           []string
	ComplianceTopic   string
	OperationsTopic   string
	Partitions        int32
	ReplicationFactor int16
	RelayInterval     time.Duration
	RelayBatchSize    int
}

// CreditConfig selects the bureau client. Without a URL the deterministic
// static bureau is used.
type CreditConfig struct {
	BureauURL        string
	APIKey           string
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

type AuditConfig struct {
	AsyncBuffer     int
	OpsSampleRate   float64
	OutboxRetention time.Duration
	// SubjectHashKey keys the PPS pseudonyms stored and streamed with audit
	// events. Empty means a per-process key.
	SubjectHashKey string
}

// RateLimitConfig budgets /htb requests per caller. A zero limit disables
// that class.
type RateLimitConfig struct {
	WriteLimit int
	ReadLimit  int
	Window     time.Duration
}

// SchedulerConfig holds cron specs for housekeeping jobs.
type SchedulerConfig struct {
	ExpirySchedule string
	PurgeSchedule  string
}

// Config is the full service configuration.
type Config struct {
	Server          Server
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	Credit          CreditConfig
	Audit           AuditConfig
	Scheduler       SchedulerConfig
	RateLimit       RateLimitConfig
	RegulationsFile string
	LogLevel        string
	BatchLimit      int
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var p parser
	cfg := Config{
		Server: Server{
			Addr:           p.str("HTB_GATEWAY_ADDR", ":8080"),
			AllowedOrigins: p.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
			JWTSigningKey:  p.str("JWT_SIGNING_KEY", ""),
			JWTIssuer:      p.str("JWT_ISSUER", "htb-gateway"),
			JWTAudience:    p.str("JWT_AUDIENCE", "htb-api"),
		},
		Database: DatabaseConfig{
			URL:             p.str("DATABASE_URL", ""),
			MaxOpenConns:    p.int("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    p.int("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CreditTTL:    p.duration("CREDIT_CACHE_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:           p.list("KAFKA_BROKERS", nil),
			ComplianceTopic:   p.str("KAFKA_COMPLIANCE_TOPIC", "htb.audit.compliance"),
			OperationsTopic:   p.str("KAFKA_OPERATIONS_TOPIC", "htb.audit.operations"),
			Partitions:        int32(p.int("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(p.int("KAFKA_REPLICATION_FACTOR", 1)),
			RelayInterval:     p.duration("OUTBOX_RELAY_INTERVAL", time.Second),
			RelayBatchSize:    p.int("OUTBOX_RELAY_BATCH_SIZE", 100),
		},
		Credit: CreditConfig{
			BureauURL:        p.str("CREDIT_BUREAU_URL", ""),
			APIKey:           p.str("CREDIT_BUREAU_API_KEY", ""),
			Timeout:          p.duration("CREDIT_BUREAU_TIMEOUT", 5*time.Second),
			FailureThreshold: p.int("CREDIT_BREAKER_FAILURES", 5),
			Cooldown:         p.duration("CREDIT_BREAKER_COOLDOWN", 30*time.Second),
		},
		Audit: AuditConfig{
			AsyncBuffer:     p.int("AUDIT_ASYNC_BUFFER", 1000),
			OpsSampleRate:   p.float("AUDIT_OPS_SAMPLE_RATE", 1.0),
			OutboxRetention: p.duration("OUTBOX_RETENTION", 7*24*time.Hour),
			SubjectHashKey:  p.str("SUBJECT_HASH_KEY", ""),
		},
		Scheduler: SchedulerConfig{
			ExpirySchedule: p.str("EXPIRY_SCHEDULE", "@every 1h"),
			PurgeSchedule:  p.str("OUTBOX_PURGE_SCHEDULE", "@daily"),
		},
		RateLimit: RateLimitConfig{
			WriteLimit: p.int("RATE_LIMIT_WRITES", 60),
			ReadLimit:  p.int("RATE_LIMIT_READS", 300),
			Window:     p.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		RegulationsFile: p.str("REGULATIONS_FILE", ""),
		LogLevel:        p.str("LOG_LEVEL", "info"),
		BatchLimit:      p.int("ASSESSMENT_BATCH_CONCURRENCY", 8),
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if cfg.Audit.OpsSampleRate < 0 || cfg.Audit.OpsSampleRate > 1 {
		return Config{}, fmt.Errorf("AUDIT_OPS_SAMPLE_RATE must be within [0,1], got %g", cfg.Audit.OpsSampleRate)
	}
	return cfg, nil
}

// parser collects every malformed variable instead of stopping at the first.
type parser struct {
	errs []error
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (p *parser) list(key string, def []string) []string {
	if items := platformstrings.SplitList(p.str(key, "")); items != nil {
		return items
	}
	return def
}

func (p *parser) int(key string, def int) int {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
