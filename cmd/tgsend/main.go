// Command tgsend sends one Telegram message using the same configuration
// and dispatch path as the HTTP server, and prints the result as JSON.
//
//	tgsend -chat @my_channel -text "deploy finished"
//	echo "multi-line body" | tgsend -chat 123456 -text -
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/config"
	"github.com/notifyhub/telegram-sender/internal/domain"
	"github.com/notifyhub/telegram-sender/internal/i18n"
	"github.com/notifyhub/telegram-sender/internal/logging"
	"github.com/notifyhub/telegram-sender/internal/provider"
	"github.com/notifyhub/telegram-sender/internal/service"
)

func main() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 on success, 1 on a failed
// dispatch, 2 on bad usage or configuration.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tgsend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	chatID := fs.String("chat", "", "target chat id or @channel username (required)")
	text := fs.String("text", "", `message text, or "-" to read it from stdin`)
	quiet := fs.Bool("quiet", false, "log errors only")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	req := domain.DispatchRequest{ChatID: *chatID, MessageText: *text}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(stderr, "tgsend: %v\n", err)
		fs.Usage()
		return 2
	}
	if req.MessageText == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "tgsend: read stdin: %v\n", err)
			return 2
		}
		req.MessageText = string(body)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "tgsend: %v\n", err)
		return 2
	}

	level := cfg.LogLevel
	if *quiet {
		level = "error"
	}
	logger, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(stderr, "tgsend: %v\n", err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck

	tr, err := i18n.New(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		logger.Error("failed to load locale", zap.String("locale", cfg.Locale), zap.Error(err))
		return 2
	}

	dispatcher := provider.NewTelegramDispatcher(provider.TelegramConfig{
		Token:       cfg.BotToken,
		BaseURL:     cfg.TelegramBaseURL,
		Timeout:     cfg.TelegramTimeout,
		Development: cfg.IsDevelopment(),
	}, tr, logger)
	svc := service.NewDispatchService(dispatcher, nil, service.Hooks{}, tr, logger)

	ctx = domain.WithCorrelationID(ctx, uuid.New().String())
	result := svc.Dispatch(ctx, req)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		logger.Error("failed to write result", zap.Error(err))
		return 1
	}

	if !result.Success {
		return 1
	}
	return 0
}
