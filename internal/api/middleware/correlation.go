package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/notifyhub/telegram-sender/internal/domain"
)

const CorrelationHeader = "X-Correlation-ID"

// maxCorrelationIDLen caps caller-supplied ids before they reach logs
// and the audit table.
const maxCorrelationIDLen = 128

// CorrelationID reads X-Correlation-ID from the request, generating a UUID
// when it is absent or oversized. The id is stored on the request context
// (see domain.CorrelationID) and echoed in the response header. It also
// serves as the digest of internal-error results.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(CorrelationHeader))
		if id == "" || len(id) > maxCorrelationIDLen {
			id = uuid.New().String()
		}
		w.Header().Set(CorrelationHeader, id)
		next.ServeHTTP(w, r.WithContext(domain.WithCorrelationID(r.Context(), id)))
	})
}
