package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/api"
	"github.com/notifyhub/telegram-sender/internal/domain"
	"github.com/notifyhub/telegram-sender/internal/i18n"
	"github.com/notifyhub/telegram-sender/internal/metrics"
	"github.com/notifyhub/telegram-sender/internal/repository"
	"github.com/notifyhub/telegram-sender/internal/service"
)

type stubDispatcher struct {
	result domain.DispatchResult
	seen   []domain.DispatchRequest
	ctxIDs []string
}

func (s *stubDispatcher) Dispatch(ctx context.Context, req domain.DispatchRequest) domain.DispatchResult {
	s.seen = append(s.seen, req)
	s.ctxIDs = append(s.ctxIDs, domain.CorrelationID(ctx))
	return s.result
}

func newTestRouter(t *testing.T, result domain.DispatchResult) (http.Handler, *stubDispatcher) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	onDispatched, onAuditFailed := m.ServiceHooks()

	d := &stubDispatcher{result: result}
	svc := service.NewDispatchService(
		d,
		repository.NewMemoryDispatchLogRepository(50),
		service.Hooks{OnDispatched: onDispatched, OnAuditFailed: onAuditFailed},
		i18n.MustDefault(),
		zap.NewNop(),
	)

	return api.NewRouter(api.RouterDeps{
		Service:              svc,
		Gatherer:             reg,
		AllowedOrigins:       []string{"https://app.example"},
		CredentialConfigured: true,
		AuditBackend:         "memory",
		Logger:               zap.NewNop(),
	}), d
}

func do(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSend_Success(t *testing.T) {
	h, d := newTestRouter(t, domain.Succeeded("sent", map[string]any{"ok": true}))

	rec := do(h, http.MethodPost, "/api/v1/telegram/messages",
		`{"chatId":"@news","messageText":"hello"}`,
		map[string]string{"X-Correlation-ID": "trace-1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Correlation-ID") != "trace-1" {
		t.Fatalf("correlation id not echoed, got %q", rec.Header().Get("X-Correlation-ID"))
	}

	var got domain.DispatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !got.Success || got.Outcome != domain.OutcomeSuccess {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(d.seen) != 1 || d.seen[0].ChatID != "@news" || d.seen[0].MessageText != "hello" {
		t.Fatalf("dispatcher saw %+v", d.seen)
	}
	if d.ctxIDs[0] != "trace-1" {
		t.Fatalf("correlation id not propagated, got %q", d.ctxIDs[0])
	}
}

func TestSend_FailureIsStill200(t *testing.T) {
	res := domain.Failed(domain.OutcomeRejected, "Telegram API error", map[string]any{"ok": false})
	res.ErrorCode = 403
	h, _ := newTestRouter(t, res)

	rec := do(h, http.MethodPost, "/api/v1/telegram/messages", `{"chatId":"1","messageText":"x"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) || !strings.Contains(rec.Body.String(), `"errorCode":403`) {
		t.Fatalf("unexpected body: %s", rec.Body)
	}
}

func TestSend_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"chatId":`, http.StatusBadRequest},
		{"empty chat id", `{"chatId":"  ","messageText":"x"}`, http.StatusUnprocessableEntity},
		{"missing chat id", `{"messageText":"x"}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, d := newTestRouter(t, domain.Succeeded("sent", nil))
			rec := do(h, http.MethodPost, "/api/v1/telegram/messages", tc.body, nil)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if len(d.seen) != 0 {
				t.Fatal("dispatcher must not be called for invalid requests")
			}
		})
	}
}

func TestDispatches_ListAndGet(t *testing.T) {
	h, _ := newTestRouter(t, domain.Succeeded("sent", nil))
	for i := 0; i < 3; i++ {
		do(h, http.MethodPost, "/api/v1/telegram/messages", `{"chatId":"1","messageText":"x"}`, nil)
	}

	rec := do(h, http.MethodGet, "/api/v1/telegram/dispatches?limit=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Data  []domain.DispatchRecord `json:"data"`
		Count int                     `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 2 || len(list.Data) != 2 {
		t.Fatalf("expected 2 records, got %+v", list)
	}

	rec = do(h, http.MethodGet, "/api/v1/telegram/dispatches/"+list.Data[0].ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(h, http.MethodGet, "/api/v1/telegram/dispatches/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDispatches_EmptyListIsArray(t *testing.T) {
	h, _ := newTestRouter(t, domain.Succeeded("sent", nil))
	rec := do(h, http.MethodGet, "/api/v1/telegram/dispatches", "", nil)
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, domain.Succeeded("sent", nil))
	rec := do(h, http.MethodGet, "/health", "", nil)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["credential"] != "configured" || body["audit"] != "memory" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestMetricsEndpoints(t *testing.T) {
	h, _ := newTestRouter(t, domain.Succeeded("sent", nil))
	do(h, http.MethodPost, "/api/v1/telegram/messages", `{"chatId":"1","messageText":"x"}`, nil)

	rec := do(h, http.MethodGet, "/api/v1/metrics", "", nil)
	var snap struct {
		Dispatches map[string]float64 `json:"dispatches"`
		Total      float64            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Dispatches["success"] != 1 || snap.Total != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	rec = do(h, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(rec.Body.String(), `telegram_dispatches_total{outcome="success"} 1`) {
		t.Fatalf("prometheus output missing counter:\n%s", rec.Body)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t, domain.Succeeded("sent", nil))
	rec := do(h, http.MethodOptions, "/api/v1/telegram/messages", "", map[string]string{
		"Origin":                        "https://app.example",
		"Access-Control-Request-Method": "POST",
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
}

func TestCorrelationIDGenerated(t *testing.T) {
	h, _ := newTestRouter(t, domain.Succeeded("sent", nil))
	rec := do(h, http.MethodGet, "/health", "", nil)
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Fatal("expected a generated correlation id")
	}
}
