package domain

import (
	"strings"
	"time"
)

// Outcome discriminates the mutually exclusive results of a dispatch.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeConfigError   Outcome = "config_error"
	OutcomeNetworkError  Outcome = "network_error"
	OutcomeRejected      Outcome = "rejected"
	OutcomeInternalError Outcome = "internal_error"
)

// Outcomes lists every outcome in a stable order (used for metrics snapshots).
var Outcomes = []Outcome{
	OutcomeSuccess,
	OutcomeConfigError,
	OutcomeNetworkError,
	OutcomeRejected,
	OutcomeInternalError,
}

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSuccess, OutcomeConfigError, OutcomeNetworkError, OutcomeRejected, OutcomeInternalError:
		return true
	}
	return false
}

// DispatchRequest is the inbound payload: one chat, one text.
type DispatchRequest struct {
	ChatID      string `json:"chatId"`
	MessageText string `json:"messageText"`
}

// Validate only checks that a chat identifier is present. Anything else
// (unknown chat, empty text) is left for the provider to reject.
func (r *DispatchRequest) Validate() error {
	if strings.TrimSpace(r.ChatID) == "" {
		return ErrEmptyChatID
	}
	return nil
}

// DispatchResult is the normalized outcome of a single dispatch.
// Success is true exactly when Outcome is OutcomeSuccess.
type DispatchResult struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	ProviderResponse any     `json:"providerResponse,omitempty"`
	Outcome          Outcome `json:"outcome"`
	ErrorCode        int     `json:"errorCode,omitempty"`
	// MessageID is the provider's id for a delivered message.
	MessageID int64 `json:"messageId,omitempty"`
}

// Succeeded builds a successful result.
func Succeeded(message string, providerResponse any) DispatchResult {
	return DispatchResult{
		Success:          true,
		Message:          message,
		ProviderResponse: providerResponse,
		Outcome:          OutcomeSuccess,
	}
}

// Failed builds a failed result for any non-success outcome.
func Failed(outcome Outcome, message string, providerResponse any) DispatchResult {
	return DispatchResult{
		Success:          false,
		Message:          message,
		ProviderResponse: providerResponse,
		Outcome:          outcome,
	}
}

// ErrorDescriptor is the locally synthesized providerResponse for failures
// that never produced a provider body (network errors, internal errors).
func ErrorDescriptor(errText string, extra ...string) map[string]string {
	d := map[string]string{"error": errText}
	for i := 0; i+1 < len(extra); i += 2 {
		d[extra[i]] = extra[i+1]
	}
	return d
}

// DispatchRecord is the audit entry written for every dispatch.
// The message text is not stored, only its length.
type DispatchRecord struct {
	ID                string    `json:"id"`
	CorrelationID     string    `json:"correlation_id,omitempty"`
	ChatID            string    `json:"chat_id"`
	TextLength        int       `json:"text_length"`
	Outcome           Outcome   `json:"outcome"`
	Success           bool      `json:"success"`
	ErrorCode         int       `json:"error_code,omitempty"`
	Message           string    `json:"message"`
	ProviderMessageID *int64    `json:"provider_message_id,omitempty"`
	LatencyMs         int64     `json:"latency_ms"`
	CreatedAt         time.Time `json:"created_at"`
}
