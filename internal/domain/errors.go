package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound    = errors.New("not found")
	ErrEmptyChatID = errors.New("chatId must not be empty")
)
