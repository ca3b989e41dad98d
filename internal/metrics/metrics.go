package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/notifyhub/telegram-sender/internal/domain"
)

const dispatchesTotalName = "telegram_dispatches_total"

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	DispatchesTotal  *prometheus.CounterVec
	DispatchLatency  *prometheus.HistogramVec
	RejectionsTotal  *prometheus.CounterVec
	AuditWriteErrors prometheus.Counter
}

// New registers all instruments with the given registerer. A custom
// registry keeps tests isolated from prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: dispatchesTotalName,
			Help: "Total number of sendMessage dispatches by outcome.",
		}, []string{"outcome"}),

		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "telegram_dispatch_duration_seconds",
			Help:    "Dispatch latency from request to classified result.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"outcome"}),

		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_rejections_total",
			Help: "Provider rejections by Bot API error code.",
		}, []string{"error_code"}),

		AuditWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "telegram_audit_write_errors_total",
			Help: "Dispatch audit records that could not be written.",
		}),
	}

	reg.MustRegister(
		m.DispatchesTotal,
		m.DispatchLatency,
		m.RejectionsTotal,
		m.AuditWriteErrors,
	)

	// Pre-create every outcome series so snapshots list zeros.
	for _, o := range domain.Outcomes {
		m.DispatchesTotal.WithLabelValues(string(o))
	}

	return m
}

// ObserveDispatch records one classified dispatch.
func (m *Metrics) ObserveDispatch(res domain.DispatchResult, latency time.Duration) {
	outcome := string(res.Outcome)
	m.DispatchesTotal.WithLabelValues(outcome).Inc()
	m.DispatchLatency.WithLabelValues(outcome).Observe(latency.Seconds())
	if res.Outcome == domain.OutcomeRejected {
		m.RejectionsTotal.WithLabelValues(strconv.Itoa(res.ErrorCode)).Inc()
	}
}

// ServiceHooks returns the callbacks expected by service.Hooks, so the
// service package stays free of Prometheus imports.
func (m *Metrics) ServiceHooks() (
	onDispatched func(domain.DispatchResult, time.Duration),
	onAuditFailed func(),
) {
	onDispatched = m.ObserveDispatch
	onAuditFailed = func() { m.AuditWriteErrors.Inc() }
	return
}

// Snapshot reads the per-outcome dispatch counters back from a gatherer.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	out := make(map[string]float64, len(domain.Outcomes))
	for _, o := range domain.Outcomes {
		out[string(o)] = 0
	}
	for _, mf := range families {
		if mf.GetName() != dispatchesTotalName {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if outcome := labelValue(metric, "outcome"); outcome != "" {
				out[outcome] = metric.GetCounter().GetValue()
			}
		}
	}
	return out, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
