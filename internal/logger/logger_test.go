package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/lexiflash/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.Level
		ok   bool
	}{
		{"debug", logger.DEBUG, true},
		{"INFO", logger.INFO, true},
		{"warning", logger.WARN, true},
		{"Error", logger.ERROR, true},
		{"loud", logger.INFO, false},
		{"", logger.INFO, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
			assert.Equal(t, tt.ok, logger.ValidLevel(tt.in))
		})
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "WARN")
}

func TestLogger_FieldsAreSortedAndPrefixed(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("learning").
		WithFields(map[string]any{"b": 2, "a": 1})

	log.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "[learning]")
	assert.True(t, strings.Index(out, "a=1") < strings.Index(out, "b=2"), out)
}

func TestLogger_DerivedDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("session", "abc")

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "session=abc")
}

func TestContextCarrier(t *testing.T) {
	l := logger.Nop().WithPrefix("req")
	ctx := logger.NewContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}

func TestLogger_QuotesFieldValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithFields(map[string]any{"err": "connection refused", "id": "w1"})

	log.Error("submit failed")

	out := buf.String()
	assert.Contains(t, out, `err="connection refused"`)
	assert.Contains(t, out, "id=w1")
}

func TestLogger_ReportsCallerFile(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false))

	log.Info("where")

	assert.Contains(t, buf.String(), "[logger_test.go:")
}
