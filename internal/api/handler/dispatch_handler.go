package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/domain"
	"github.com/notifyhub/telegram-sender/internal/service"
)

// DispatchHandler exposes sendMessage dispatches and their audit records.
type DispatchHandler struct {
	svc    *service.DispatchService
	logger *zap.Logger
}

func NewDispatchHandler(svc *service.DispatchService, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{svc: svc, logger: logger}
}

// Send handles POST /api/v1/telegram/messages
//
// Every dispatch outcome, including provider rejections, is a 200 with the
// result body; callers branch on "success".
//
// @Summary     Send a text message to a Telegram chat
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Param       body  body      domain.DispatchRequest  true  "Chat and text"
// @Success     200   {object}  domain.DispatchResult
// @Failure     400   {object}  map[string]string
// @Failure     422   {object}  map[string]string
// @Router      /api/v1/telegram/messages [post]
func (h *DispatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("dispatch request rejected",
			zap.String("correlation_id", domain.CorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.svc.Dispatch(r.Context(), req))
}

// GetByID handles GET /api/v1/telegram/dispatches/{id}
//
// @Summary  Get a dispatch record by ID
// @Tags     telegram
// @Produce  json
// @Param    id   path      string  true  "Dispatch record UUID"
// @Success  200  {object}  domain.DispatchRecord
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/telegram/dispatches/{id} [get]
func (h *DispatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// List handles GET /api/v1/telegram/dispatches
//
// @Summary  List recent dispatch records, newest first
// @Tags     telegram
// @Produce  json
// @Param    limit  query     int  false  "Max records (default 20, max 100)"
// @Success  200    {object}  map[string]any
// @Router   /api/v1/telegram/dispatches [get]
func (h *DispatchHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.svc.ListRecords(r.Context(), limit)
	if err != nil {
		h.logger.Error("list dispatch records failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list dispatch records")
		return
	}
	if records == nil {
		records = []*domain.DispatchRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  records,
		"count": len(records),
	})
}
