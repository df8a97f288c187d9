package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// SMSProvider stores settings of the external SMS gateway
// (form-encoded HTTP API with basic auth).
type SMSProvider struct {
	BaseURL        string
	AccountID      string
	AuthToken      string
	FromNumber     string
	StatusCallback string
	Timeout        time.Duration
}

// SMTP stores settings of the outbound email gateway.
type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// GatewayRetry describes the retry/backoff policy of the delivery gateway.
// Delay grows linearly: BaseDelay × attempt number, capped at MaxDelay.
type GatewayRetry struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Dispatch stores batch-dispatch pacing settings. DeepLinkBase, when
// set, is prepended to assignment links in outbound messages.
type Dispatch struct {
	PaceEvery        int
	PacePause        time.Duration
	OperationTimeout time.Duration
	DeepLinkBase     string
}

// RateLimit stores webhook rate limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Kafka stores dispatch-command consumer settings. Empty brokers or
// topic disable the worker consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Redis stores the notification-stats cache settings.
type Redis struct {
	Addr     string
	StatsTTL time.Duration
}

// Pprof stores pprof server credentials for non-loopback access.
type Pprof struct {
	User string
	Pass string
}

// Config stores service settings.
type Config struct {
	Port      int
	DB        DB
	SMS       SMSProvider
	SMTP      SMTP
	Retry     GatewayRetry
	Dispatch  Dispatch
	RateLimit RateLimit
	Kafka     Kafka
	Redis     Redis
	Pprof     Pprof
}

// Load reads configuration in order: .env (if present), then environment, then flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      envInt("PORT", DefaultPort()),
		DB:        loadDB(),
		SMS:       loadSMS(),
		SMTP:      loadSMTP(),
		Retry:     loadRetry(),
		Dispatch:  loadDispatch(),
		RateLimit: loadRateLimit(),
		Kafka:     loadKafka(),
		Redis:     loadRedis(),
		Pprof: Pprof{
			User: os.Getenv("PPROF_USER"),
			Pass: os.Getenv("PPROF_PASS"),
		},
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("invalid SMS_MAX_RETRIES: %d", c.Retry.MaxRetries)
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxDelay < 0 {
		return fmt.Errorf("invalid gateway retry delays")
	}
	if c.Dispatch.PaceEvery <= 0 {
		return fmt.Errorf("invalid DISPATCH_PACE_EVERY: %d", c.Dispatch.PaceEvery)
	}
	if c.SMS.BaseURL == "" {
		return fmt.Errorf("SMS_BASE_URL is required")
	}
	return nil
}

func loadDB() DB {
	d := DefaultDB()
	d.Host = envStr("POSTGRES_HOST", d.Host)
	d.Port = envStr("POSTGRES_PORT", d.Port)
	d.User = envStr("POSTGRES_USER", d.User)
	d.Pass = envStr("POSTGRES_PASSWORD", d.Pass)
	d.Name = envStr("POSTGRES_DB", d.Name)
	return d
}

func loadSMS() SMSProvider {
	s := DefaultSMSProvider()
	s.BaseURL = envStr("SMS_BASE_URL", s.BaseURL)
	s.AccountID = envStr("SMS_ACCOUNT_ID", s.AccountID)
	s.AuthToken = envStr("SMS_AUTH_TOKEN", s.AuthToken)
	s.FromNumber = envStr("SMS_FROM_NUMBER", s.FromNumber)
	s.StatusCallback = envStr("SMS_STATUS_CALLBACK", s.StatusCallback)
	s.Timeout = envDuration("SMS_TIMEOUT", s.Timeout)
	return s
}

func loadSMTP() SMTP {
	m := DefaultSMTP()
	m.Host = envStr("SMTP_HOST", m.Host)
	m.Port = envInt("SMTP_PORT", m.Port)
	m.User = envStr("SMTP_USER", m.User)
	m.Pass = envStr("SMTP_PASSWORD", m.Pass)
	m.From = envStr("SMTP_FROM", m.From)
	return m
}

func loadRetry() GatewayRetry {
	r := DefaultGatewayRetry()
	r.MaxRetries = envInt("SMS_MAX_RETRIES", r.MaxRetries)
	r.BaseDelay = envDuration("SMS_RETRY_BASE_DELAY", r.BaseDelay)
	r.MaxDelay = envDuration("SMS_RETRY_MAX_DELAY", r.MaxDelay)
	return r
}

func loadDispatch() Dispatch {
	d := DefaultDispatch()
	d.PaceEvery = envInt("DISPATCH_PACE_EVERY", d.PaceEvery)
	d.PacePause = envDuration("DISPATCH_PACE_PAUSE", d.PacePause)
	d.OperationTimeout = envDuration("DISPATCH_OP_TIMEOUT", d.OperationTimeout)
	d.DeepLinkBase = envStr("DISPATCH_DEEPLINK_BASE", d.DeepLinkBase)
	return d
}

func loadRateLimit() RateLimit {
	rl := DefaultRateLimit()
	rl.Enabled = envBool("RATE_LIMIT_ENABLED", rl.Enabled)
	rl.Rate = envFloat("RATE_LIMIT_RATE", rl.Rate)
	rl.Burst = envInt("RATE_LIMIT_BURST", rl.Burst)
	rl.TTL = envDuration("RATE_LIMIT_TTL", rl.TTL)
	rl.MaxBuckets = envInt("RATE_LIMIT_MAX_BUCKETS", rl.MaxBuckets)
	return rl
}

func loadKafka() Kafka {
	k := Kafka{
		GroupID: envStr("KAFKA_GROUP_ID", DefaultKafkaGroupID()),
		Topic:   os.Getenv("KAFKA_DISPATCH_TOPIC"),
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				k.Brokers = append(k.Brokers, b)
			}
		}
	}
	return k
}

func loadRedis() Redis {
	r := DefaultRedis()
	r.Addr = envStr("REDIS_ADDR", r.Addr)
	r.StatsTTL = envDuration("REDIS_STATS_TTL", r.StatsTTL)
	return r
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
