package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogUpstreamCall logs the outcome of one outbound platform request
func LogUpstreamCall(l Logger, method, url string, status int, duration time.Duration, err error) {
	if l == nil {
		l = GetLogger()
	}
	fields := map[string]interface{}{
		"method":   method,
		"url":      url,
		"duration": duration,
	}
	if status > 0 {
		fields["status"] = status
	}

	switch {
	case err != nil:
		l.WithError(err).ErrorWithFields("upstream request failed", fields)
	case status >= 500:
		l.WarnWithFields("upstream server error", fields)
	default:
		l.DebugWithFields("upstream request completed", fields)
	}
}

// LogFeedServed logs a feed fetch for one platform
func LogFeedServed(l Logger, platform, cursor string, count int, duration time.Duration) {
	if l == nil {
		l = GetLogger()
	}
	l.InfoWithFields("feed served", map[string]interface{}{
		"platform": platform,
		"lid":      cursor,
		"count":    count,
		"duration": duration,
	})
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	l := GetLogger().WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}

func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
