package domain

import "strings"

// Intent is the classified meaning of an inbound rider reply.
type Intent string

// List of possible intents.
const (
	IntentConfirm       Intent = "CONFIRM"
	IntentDecline       Intent = "DECLINE"
	IntentInfoRequest   Intent = "INFO_REQUEST"
	IntentGeneral       Intent = "GENERAL"
	IntentUnknownSender Intent = "UNKNOWN_SENDER"
)

// ClassifyIntent maps a raw reply body to an intent. Matching is
// case-insensitive: "confirm"/"decline" anywhere in the body, bare
// "yes"/"y"/"no"/"n", or an info/details keyword. Anything else is
// GENERAL and gets flagged for manual follow-up instead of an auto-reply.
// Unknown-sender classification happens earlier, on rider lookup.
func ClassifyIntent(body string) Intent {
	b := strings.ToLower(strings.TrimSpace(body))
	switch {
	case strings.Contains(b, "confirm") || b == "yes" || b == "y":
		return IntentConfirm
	case strings.Contains(b, "decline") || b == "no" || b == "n":
		return IntentDecline
	case strings.Contains(b, "info") || strings.Contains(b, "details"):
		return IntentInfoRequest
	default:
		return IntentGeneral
	}
}
