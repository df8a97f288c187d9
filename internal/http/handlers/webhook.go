package handlers

import (
	"net/http"

	"service-rider-notify/internal/logx"
	"service-rider-notify/internal/service/inbound"
)

// emptyTwiML tells the provider we have nothing synchronous to say;
// acks go out as separate sends.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// WebhookHandler handles inbound SMS callbacks from the provider.
type WebhookHandler struct {
	processor replyProcessor
	logger    logx.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(logger logx.Logger, p replyProcessor) *WebhookHandler {
	return &WebhookHandler{processor: p, logger: logger}
}

// InboundSMS handles POST /webhooks/sms. The provider retries anything
// that is not a 2xx, so this endpoint answers 200 no matter what; all
// processing failures stay internal.
func (h *WebhookHandler) InboundSMS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("webhook form parse failed",
			logx.String("req_id", reqID(r)), logx.Error(err))
		writeTwiML(w)
		return
	}

	reply := inbound.Reply{
		From:       r.PostFormValue("From"),
		Body:       r.PostFormValue("Body"),
		ExternalID: r.PostFormValue("MessageSid"),
	}
	if reply.From == "" {
		h.logger.Warn("webhook without From field", logx.String("req_id", reqID(r)))
		writeTwiML(w)
		return
	}

	rec := h.processor.Handle(r.Context(), reply)
	h.logger.Info("inbound reply processed",
		logx.String("req_id", reqID(r)),
		logx.String("intent", string(rec.Intent)),
		logx.String("rider", rec.MatchedRiderName),
	)
	writeTwiML(w)
}

func writeTwiML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(emptyTwiML))
}
