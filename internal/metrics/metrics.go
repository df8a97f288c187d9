package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by the SMS gateway
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by the SMS gateway",
	})
}

// NewNotificationsSentTotal returns a Prometheus counter vector of successful sends, labeled by channel
func NewNotificationsSentTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of successfully delivered notifications",
	}, []string{"channel"})
}

// NewNotificationsFailedTotal returns a Prometheus counter vector of failed sends, labeled by channel
func NewNotificationsFailedTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of notification sends that failed after retries",
	}, []string{"channel"})
}

// NewInboundResponsesTotal returns a Prometheus counter vector of processed inbound replies, labeled by intent
func NewInboundResponsesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inbound_responses_total",
		Help: "Total number of inbound replies processed, by classified intent",
	}, []string{"intent"})
}
