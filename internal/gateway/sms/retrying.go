package sms

import (
	"context"
	"time"

	"service-rider-notify/internal/logx"
)

type gateway interface {
	Send(ctx context.Context, to, body string) (*SendResult, error)
}

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingGateway. Всего выполняется
// MaxRetries+1 попыток; задержка растет линейно: BaseDelay × номер попытки.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// RetryingGateway реализует повторные отправки поверх обычного gateway.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingGateway конструктор который проверяет, что next не nil
// и возвращает RetryingGateway.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg, sleep: time.Sleep}
}

// Send attempts a delivery up to MaxRetries+1 times. Only transient
// failures are retried; validation and permanent provider rejections
// return immediately with the original error.
func (g *RetryingGateway) Send(ctx context.Context, to, body string) (*SendResult, error) {
	var lastErr error
	attempts := g.cfg.MaxRetries + 1
	// цикл по повторам
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := g.next.Send(ctx, to, body)
		if err == nil {
			return res, nil
		}
		lastErr = err
		// проверяем условия повтора
		if ctx.Err() != nil || attempt == attempts || !IsTransient(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("sms gateway retry",
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		// ждем
		if !sleepWithContext(ctx, g.sleep, delay) {
			break
		}
	}
	return nil, lastErr
}

// backoff вычисляет задержку повтора: base × attempt, не больше max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base * time.Duration(attempt)
	if max > 0 && d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	sleep(d)
	return ctx.Err() == nil
}
