package app

import (
	"context"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"service-rider-notify/internal/config"
	"service-rider-notify/internal/logx"
	"service-rider-notify/internal/service/dispatch"
	"service-rider-notify/internal/service/inbound"
	testlog "service-rider-notify/internal/testutil"
	"service-rider-notify/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:     8080,
		SMS:      config.DefaultSMSProvider(),
		SMTP:     config.DefaultSMTP(),
		Retry:    config.DefaultGatewayRetry(),
		Dispatch: config.DefaultDispatch(),
		Redis:    config.DefaultRedis(),
	}
}

func setupTestContainer(t *testing.T) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"std logger", func() *log.Logger { return log.New(log.Writer(), "", 0) }},
		{"logx logger", func() logx.Logger { return testlog.New().Logger() }},
		{"config", testConfig},
		{"pgxpool", func() *pgxpool.Pool { return &pgxpool.Pool{} }},
		{"redis", func() *redis.Client { return redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"}) }},
		{"metrics", newMetrics},
	}

	for _, p := range providers {
		err := c.Provide(p.provider)
		require.NoErrorf(t, err, "provide %s", p.name)
	}

	require.NoError(t, registerGateways(c))
	require.NoError(t, registerService(c))

	return c
}

func TestContainer_ResolvesHTTPServer(t *testing.T) {
	c := setupTestContainer(t)
	require.NoError(t, registerHTTP(c))

	err := c.Invoke(func(srv *http.Server) {
		require.NotNil(t, srv)
		require.Equal(t, ":8080", srv.Addr)
		require.NotNil(t, srv.Handler)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, srv.ReadTimeout, time.Duration(0))
		require.Greater(t, srv.WriteTimeout, time.Duration(0))
		require.Greater(t, srv.IdleTimeout, time.Duration(0))
	})
	require.NoError(t, err)
}

func TestContainer_ResolvesServices(t *testing.T) {
	c := setupTestContainer(t)

	err := c.Invoke(func(o *dispatch.Orchestrator, p *inbound.Processor) {
		require.NotNil(t, o)
		require.NotNil(t, p)
	})
	require.NoError(t, err)
}

func TestWorkerContainer_NoConsumerWithoutKafkaConfig(t *testing.T) {
	c := setupTestContainer(t)
	require.NoError(t, registerWorker(c))

	err := c.Invoke(func(consumer *kafka.Consumer) {
		// кафка не сконфигурирована, потребителя нет
		require.Nil(t, consumer)
	})
	require.NoError(t, err)
}
