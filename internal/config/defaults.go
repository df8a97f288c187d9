package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "notify",
	Pass: "notify",
	Name: "rider_notify",
}

var defaultSMSProvider = SMSProvider{
	BaseURL:    "https://sms.gateway.example/v1",
	FromNumber: "5550000000",
	Timeout:    15 * time.Second,
}

var defaultSMTP = SMTP{
	Host: "127.0.0.1",
	Port: 587,
	From: "dispatch@rider-notify.local",
}

var defaultGatewayRetry = GatewayRetry{
	MaxRetries: 3,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   5 * time.Second,
}

var defaultDispatch = Dispatch{
	PaceEvery:        5,
	PacePause:        2 * time.Second,
	OperationTimeout: 30 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       10,
	Burst:      20,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

const defaultKafkaGroupID = "rider-notify-dispatch"

var defaultRedis = Redis{
	Addr:     "127.0.0.1:6379",
	StatsTTL: 30 * time.Second,
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultSMSProvider returns the default SMS gateway settings.
func DefaultSMSProvider() SMSProvider { return defaultSMSProvider }

// DefaultSMTP returns the default email gateway settings.
func DefaultSMTP() SMTP { return defaultSMTP }

// DefaultGatewayRetry returns the default gateway retry policy.
func DefaultGatewayRetry() GatewayRetry { return defaultGatewayRetry }

// DefaultDispatch returns the default dispatch pacing settings.
func DefaultDispatch() Dispatch { return defaultDispatch }

// DefaultRateLimit returns the default webhook rate limiter settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }

// DefaultKafkaGroupID returns the default consumer group id.
func DefaultKafkaGroupID() string { return defaultKafkaGroupID }

// DefaultRedis returns the default stats cache settings.
func DefaultRedis() Redis { return defaultRedis }
