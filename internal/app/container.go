package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-rider-notify/internal/cache"
	"service-rider-notify/internal/compose"
	"service-rider-notify/internal/config"
	"service-rider-notify/internal/gateway/email"
	"service-rider-notify/internal/gateway/sms"
	"service-rider-notify/internal/http/handlers"
	"service-rider-notify/internal/http/middleware/ratelimit"
	"service-rider-notify/internal/http/pprofserver"
	"service-rider-notify/internal/http/router"
	"service-rider-notify/internal/logx"
	"service-rider-notify/internal/repository"
	"service-rider-notify/internal/service/dispatch"
	"service-rider-notify/internal/service/inbound"
	"service-rider-notify/internal/service/recorder"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container for the HTTP service
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds and returns a new dig container for the
// dispatch worker
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildShared(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns a new dig container for
// the dispatch worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
		newMetrics,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	providerRedis := func(cfg *config.Config) *redis.Client {
		return redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	}
	return provideAll(container, providerDB, providerRedis)
}

type smsGatewayIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		func(in smsGatewayIn) *sms.RetryingGateway {
			client := sms.NewClient(in.Cfg.SMS)
			return sms.NewRetryingGateway(client, in.Logger, in.Retries, sms.RetryConfig{
				MaxRetries: in.Cfg.Retry.MaxRetries,
				BaseDelay:  in.Cfg.Retry.BaseDelay,
				MaxDelay:   in.Cfg.Retry.MaxDelay,
			})
		},
		func(cfg *config.Config) *email.Client { return email.NewClient(cfg.SMTP) },
		func(cfg *config.Config) *compose.Composer { return compose.New(cfg.Dispatch.DeepLinkBase) },
	)
}

type dispatchIn struct {
	dig.In

	Cfg         *config.Config
	Logger      logx.Logger
	Assignments *repository.AssignmentRepo
	Riders      *repository.RiderRepo
	Requests    *repository.RequestRepo
	SMS         *sms.RetryingGateway
	Email       *email.Client
	Composer    *compose.Composer
	Tracking    *repository.TrackingRepo
	Recorder    *recorder.Service
	Cache       *cache.StatsCache
	Sent        *prometheus.CounterVec `name:"notifications_sent_total"`
	Failed      *prometheus.CounterVec `name:"notifications_failed_total"`
}

type inboundIn struct {
	dig.In

	Logger      logx.Logger
	Riders      *repository.RiderRepo
	Assignments *repository.AssignmentRepo
	Requests    *repository.RequestRepo
	Recorder    *recorder.Service
	SMS         *sms.RetryingGateway
	Composer    *compose.Composer
	Tracking    *repository.TrackingRepo
	Activity    *repository.ActivityRepo
	Inbound     *prometheus.CounterVec `name:"inbound_responses_total"`
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewAssignmentRepo,
		repository.NewRiderRepo,
		repository.NewRequestRepo,
		repository.NewTrackingRepo,
		repository.NewActivityRepo,
		func(rdb *redis.Client, cfg *config.Config) *cache.StatsCache {
			return cache.NewStatsCache(rdb, cfg.Redis.StatsTTL)
		},
		func(repo *repository.AssignmentRepo, c *cache.StatsCache, act *repository.ActivityRepo, logger logx.Logger) *recorder.Service {
			return recorder.NewService(repo, c, act, 3*time.Second, logger)
		},
		func(in dispatchIn) *dispatch.Orchestrator {
			return dispatch.NewOrchestrator(dispatch.Deps{
				Assignments: in.Assignments,
				Riders:      in.Riders,
				Requests:    in.Requests,
				SMS:         in.SMS,
				Email:       in.Email,
				Composer:    in.Composer,
				Tracking:    in.Tracking,
				Recorder:    in.Recorder,
				Cache:       in.Cache,
				SentTotal:   in.Sent,
				FailedTotal: in.Failed,
			}, in.Cfg.Dispatch, in.Logger)
		},
		func(in inboundIn) *inbound.Processor {
			return inbound.NewProcessor(inbound.Deps{
				Riders:      in.Riders,
				Assignments: in.Assignments,
				Requests:    in.Requests,
				Status:      in.Recorder,
				SMS:         in.SMS,
				Composer:    in.Composer,
				Tracking:    in.Tracking,
				Activity:    in.Activity,
				IntentTotal: in.Inbound,
			}, 5*time.Second, in.Logger)
		},
	)
}

type routerIn struct {
	dig.In

	Base      *handlers.Handlers
	Notify    *handlers.NotifyHandler
	Webhook   *handlers.WebhookHandler
	RateLimit *ratelimit.Middleware
	Cfg       *config.Config
	Logger    logx.Logger
}

func registerHTTP(container *dig.Container) error {
	routerProvider := func(in routerIn) http.Handler {
		return router.New(router.Deps{
			Base:      in.Base,
			Notify:    in.Notify,
			Webhook:   in.Webhook,
			RateLimit: in.RateLimit,
			Pprof: pprofserver.Handler(pprofserver.Config{
				User: in.Cfg.Pprof.User,
				Pass: in.Cfg.Pprof.Pass,
			}),
			Logger: in.Logger,
		})
	}
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewNotifyUsecase,
		handlers.NewNotifyHandler,
		handlers.NewReplyProcessor,
		handlers.NewWebhookHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}
