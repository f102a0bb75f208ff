package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	for level, expected := range map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"ERROR":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"Info":    logrus.InfoLevel,
		"trace":   logrus.TraceLevel,
		"warn":    logrus.WarnLevel,
		" info ":  logrus.InfoLevel,
		"unknown": logrus.InfoLevel,
		"":        logrus.InfoLevel,
	} {
		assert.Equal(t, expected, GetLevel(level), level)
	}
}

func TestSentryHook_Levels(t *testing.T) {
	levels := []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel}
	hook := NewSentryHook(levels)
	assert.Equal(t, levels, hook.Levels())
}

func TestNewSentryEvent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &logrus.Entry{
		Level:   logrus.ErrorLevel,
		Message: "record workout failed",
		Time:    now,
		Data: logrus.Fields{
			logrus.ErrorKey: errors.New("store down"),
			"user":          "u1",
		},
	}

	event := newSentryEvent(entry)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "record workout failed", event.Message)
	assert.Equal(t, now, event.Timestamp)
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "store down", event.Exception[0].Value)
	assert.Equal(t, "u1", event.Extra["user"])
	assert.NotContains(t, event.Extra, logrus.ErrorKey)
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}
