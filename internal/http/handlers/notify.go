package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/logx"
	"service-rider-notify/internal/service/dispatch"
)

// NotifyHandler handles HTTP requests for outbound notifications.
type NotifyHandler struct {
	usecase notifyUsecase
	logger  logx.Logger
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(logger logx.Logger, uc notifyUsecase) *NotifyHandler {
	return &NotifyHandler{usecase: uc, logger: logger}
}

// Dispatch handles POST /notifications/dispatch. The response always
// carries the full batch report; partial failure is still 200.
func (h *NotifyHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	ch := domain.Channel(req.Channel)
	if req.Channel == "" {
		ch = domain.ChannelBoth
	}

	batch, err := h.usecase.SendBatch(r.Context(),
		dispatch.Selection{IDs: req.IDs, Preset: req.Preset}, ch, req.Label)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, batchToResponse(batch))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// SendOne handles POST /notifications/{id}/send.
func (h *NotifyHandler) SendOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	ch := domain.Channel(r.URL.Query().Get("channel"))
	if ch == "" {
		ch = domain.ChannelBoth
	}

	results, err := h.usecase.SendOne(r.Context(), id, ch)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, resultsToResponse(results))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid channel")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Stats handles GET /notifications/stats.
func (h *NotifyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.usecase.Stats(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, s)
}
