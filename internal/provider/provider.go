package provider

import (
	"context"
	"encoding/json"

	"github.com/notifyhub/telegram-sender/internal/domain"
)

// sendMessageRequest is the JSON body posted to the Bot API sendMessage method.
// Only chat_id and text are ever set.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// apiResponse is the typed view of the Bot API response envelope.
// Result stays raw: its shape depends on the method and is only probed for message_id.
type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (r apiResponse) messageID() int64 {
	if len(r.Result) == 0 {
		return 0
	}
	var msg struct {
		MessageID int64 `json:"message_id"`
	}
	if err := json.Unmarshal(r.Result, &msg); err != nil {
		return 0
	}
	return msg.MessageID
}

// Dispatcher forwards one message to the messaging provider.
// Implementations never return an error: every failure is a DispatchResult.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.DispatchRequest) domain.DispatchResult
}
