package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_LevelMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		level        string
		debugEnabled bool
	}{
		{name: "debug level", level: "debug", debugEnabled: true},
		{name: "info level", level: "info", debugEnabled: false},
		{name: "upper case", level: "DEBUG", debugEnabled: true},
		{name: "empty level defaults to info", level: "", debugEnabled: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tc.level)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tc.debugEnabled {
				t.Fatalf("debug enabled=%v, want=%v", got, tc.debugEnabled)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	logger, err := New("loud")
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
	if logger != nil {
		t.Fatal("expected nil logger for invalid level")
	}
}

func TestBotID(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"123456:ABC-secret": "123456",
		"  987:xyz ":        "987",
		"":                  "",
		"no-colon-token":    "***",
	}
	for in, want := range testCases {
		if got := BotID(in); got != want {
			t.Errorf("BotID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	if got := Preview("short", 50); got != "short" {
		t.Errorf("Preview() = %q, want %q", got, "short")
	}
	if got := Preview("привет мир", 6); got != "привет..." {
		t.Errorf("Preview() = %q, want %q", got, "привет...")
	}
}
