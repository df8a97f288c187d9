package app

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-rider-notify/internal/metrics"
)

// счётчики глобальные: контейнер может собираться не один раз,
// а прометеус не прощает повторную регистрацию
var (
	metricsOnce sync.Once

	rateLimitExceededTotal   prometheus.Counter
	gatewayRetriesTotal      prometheus.Counter
	notificationsSentTotal   *prometheus.CounterVec
	notificationsFailedTotal *prometheus.CounterVec
	inboundResponsesTotal    *prometheus.CounterVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		rateLimitExceededTotal = metrics.NewRateLimitExceededTotal()
		gatewayRetriesTotal = metrics.NewGatewayRetriesTotal()
		notificationsSentTotal = metrics.NewNotificationsSentTotal()
		notificationsFailedTotal = metrics.NewNotificationsFailedTotal()
		inboundResponsesTotal = metrics.NewInboundResponsesTotal()

		prometheus.MustRegister(
			rateLimitExceededTotal,
			gatewayRetriesTotal,
			notificationsSentTotal,
			notificationsFailedTotal,
			inboundResponsesTotal,
		)
	})
}

type metricsOut struct {
	dig.Out

	RateLimit      prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRetries prometheus.Counter     `name:"gateway_retries_total"`
	Sent           *prometheus.CounterVec `name:"notifications_sent_total"`
	Failed         *prometheus.CounterVec `name:"notifications_failed_total"`
	Inbound        *prometheus.CounterVec `name:"inbound_responses_total"`
}

func newMetrics() metricsOut {
	initMetrics()
	return metricsOut{
		RateLimit:      rateLimitExceededTotal,
		GatewayRetries: gatewayRetriesTotal,
		Sent:           notificationsSentTotal,
		Failed:         notificationsFailedTotal,
		Inbound:        inboundResponsesTotal,
	}
}
