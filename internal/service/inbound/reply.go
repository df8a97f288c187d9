package inbound

import "time"

// Reply is a single inbound SMS delivered by the provider webhook.
type Reply struct {
	From       string
	Body       string
	ExternalID string
	ReceivedAt time.Time
}
