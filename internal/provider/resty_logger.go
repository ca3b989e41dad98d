package provider

import (
	"fmt"

	"go.uber.org/zap"
)

// restyLogger routes resty's internal log output through zap. Resty logs
// request errors with the full URL, which carries the bot token, so every
// line passes through redact first.
type restyLogger struct {
	log    *zap.Logger
	redact func(string) string
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(l.redact(fmt.Sprintf(format, v...)), zap.String("component", "resty"))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(l.redact(fmt.Sprintf(format, v...)), zap.String("component", "resty"))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(l.redact(fmt.Sprintf(format, v...)), zap.String("component", "resty"))
}
