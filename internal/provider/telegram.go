package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/domain"
	"github.com/notifyhub/telegram-sender/internal/i18n"
	"github.com/notifyhub/telegram-sender/internal/logging"
)

const (
	DefaultBaseURL   = "https://api.telegram.org"
	defaultTimeout   = 10 * time.Second
	tokenPlaceholder = "<TOKEN_HIDDEN>"
)

// TelegramConfig is everything the dispatcher needs, passed in explicitly so
// tests never have to touch the process environment.
type TelegramConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	// Development selects the wording of the missing-token message.
	Development bool
}

// TelegramDispatcher sends text messages through the Bot API sendMessage method.
// One call, one HTTP attempt: retries are disabled on the client.
type TelegramDispatcher struct {
	cfg    TelegramConfig
	client *resty.Client
	tr     *i18n.Translator
	logger *zap.Logger
}

func NewTelegramDispatcher(cfg TelegramConfig, tr *i18n.Translator, logger *zap.Logger) *TelegramDispatcher {
	return NewTelegramDispatcherWithClient(cfg, resty.New(), tr, logger)
}

// NewTelegramDispatcherWithClient lets tests inject a client with their own
// timeout or transport.
func NewTelegramDispatcherWithClient(cfg TelegramConfig, client *resty.Client, tr *i18n.Translator, logger *zap.Logger) *TelegramDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tr == nil {
		tr = i18n.MustDefault()
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	d := &TelegramDispatcher{cfg: cfg, tr: tr, logger: logger.Named("telegram")}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetRetryCount(0)
	client.SetBaseURL(cfg.BaseURL)
	client.SetLogger(restyLogger{log: d.logger, redact: d.redact})
	d.client = client

	return d
}

// CredentialConfigured reports whether a bot token is present.
func (d *TelegramDispatcher) CredentialConfigured() bool {
	return d.cfg.Token != ""
}

// Dispatch sends req and classifies the outcome. The four outcomes
// (config error, network error, success, rejection) are mutually exclusive.
func (d *TelegramDispatcher) Dispatch(ctx context.Context, req domain.DispatchRequest) domain.DispatchResult {
	log := d.logger.With(zap.String("chat_id", req.ChatID))

	if d.cfg.Token == "" {
		key := "dispatch.config_missing.prod"
		if d.cfg.Development {
			key = "dispatch.config_missing.dev"
		}
		log.Error("bot token is not configured")
		return domain.Failed(domain.OutcomeConfigError, d.tr.T(key), nil)
	}

	log = log.With(zap.String("bot_id", logging.BotID(d.cfg.Token)))
	log.Info("sending telegram message",
		zap.String("endpoint", d.cfg.BaseURL+"/bot"+tokenPlaceholder+"/sendMessage"),
		zap.String("text_preview", logging.Preview(req.MessageText, 50)),
		zap.Int("text_length", len(req.MessageText)),
	)

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sendMessageRequest{ChatID: req.ChatID, Text: req.MessageText}).
		Post("/bot" + url.PathEscape(d.cfg.Token) + "/sendMessage")
	if err != nil {
		return d.networkFailure(log, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	log.Debug("telegram response received", zap.Int("status", status), zap.Int("bytes", len(body)))

	// A body that is not a JSON object is treated like a transport failure.
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return d.networkFailure(log, fmt.Errorf("decode response (HTTP %d): %w", status, err))
	}
	if raw == nil {
		return d.networkFailure(log, fmt.Errorf("decode response (HTTP %d): empty JSON body", status))
	}

	// Fields with unexpected types leave the typed view zero-valued, which
	// falls through to the rejection path below.
	var parsed apiResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.IsSuccess() && parsed.OK {
		result := domain.Succeeded(d.tr.T("dispatch.sent"), raw)
		result.MessageID = parsed.messageID()
		log.Info("telegram message sent", zap.Int64("message_id", result.MessageID))
		return result
	}

	description := strings.TrimSpace(parsed.Description)
	if description == "" {
		description = fmt.Sprintf("HTTP status %d", status)
	}
	code := parsed.ErrorCode
	if code == 0 {
		code = status
	}

	message := d.tr.T("dispatch.rejected", description, code)
	if g := ClassifyRejection(code, description); g != GuidanceNone {
		message += " " + d.tr.T(string(g))
	}

	log.Warn("telegram api rejected message",
		zap.Int("status", status),
		zap.Int("error_code", code),
		zap.String("description", description),
	)

	result := domain.Failed(domain.OutcomeRejected, message, raw)
	result.ErrorCode = code
	return result
}

func (d *TelegramDispatcher) networkFailure(log *zap.Logger, err error) domain.DispatchResult {
	errText := strings.TrimSpace(d.redact(err.Error()))
	if errText == "" {
		errText = d.tr.T("dispatch.network_error.unknown")
	}

	log.Error("telegram request failed", zap.String("error", errText))
	return domain.Failed(
		domain.OutcomeNetworkError,
		d.tr.T("dispatch.network_error", errText),
		domain.ErrorDescriptor(errText),
	)
}

// redact removes the bot token (raw and path-escaped) from s.
func (d *TelegramDispatcher) redact(s string) string {
	if d.cfg.Token == "" {
		return s
	}
	s = strings.ReplaceAll(s, d.cfg.Token, tokenPlaceholder)
	if escaped := url.PathEscape(d.cfg.Token); escaped != d.cfg.Token {
		s = strings.ReplaceAll(s, escaped, tokenPlaceholder)
	}
	return s
}

var _ Dispatcher = (*TelegramDispatcher)(nil)
