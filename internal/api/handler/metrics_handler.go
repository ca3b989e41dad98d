package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/metrics"
)

// MetricsHandler serves a human-readable JSON snapshot of dispatch counts.
// Raw Prometheus metrics are served separately at /metrics.
type MetricsHandler struct {
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

func NewMetricsHandler(gatherer prometheus.Gatherer, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{gatherer: gatherer, logger: logger}
}

// GetMetrics handles GET /api/v1/metrics
//
// @Summary  Dispatch counts by outcome
// @Tags     metrics
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/metrics [get]
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := metrics.Snapshot(h.gatherer)
	if err != nil {
		h.logger.Error("metrics snapshot failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to gather metrics")
		return
	}

	var total float64
	for _, v := range snap {
		total += v
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"dispatches": snap,
		"total":      total,
	})
}
