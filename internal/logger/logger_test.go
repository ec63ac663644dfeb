package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &zapLogger{z: zap.New(core)}

	l.WithFields(map[string]interface{}{"kind": "lead"}).
		WithError(errors.New("disk full")).
		Warn("save failed", map[string]interface{}{"key": "job-hunt-tracker"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		e := entries[0]
		assert.Equal(t, "save failed", e.Message)
		assert.Equal(t, zapcore.WarnLevel, e.Level)
		ctx := e.ContextMap()
		assert.Equal(t, "lead", ctx["kind"])
		assert.Equal(t, "job-hunt-tracker", ctx["key"])
		assert.Equal(t, "disk full", ctx["error"])
	}
}

func TestNew_Levels(t *testing.T) {
	assert.True(t, New("debug", "console").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("warn", "json").Core().Enabled(zapcore.InfoLevel))
	assert.True(t, New("", "json").Core().Enabled(zapcore.InfoLevel))
	assert.False(t, New("bogus", "console").Core().Enabled(zapcore.DebugLevel))
}

func TestToFields_KeyOrder(t *testing.T) {
	fields := toFields(map[string]interface{}{"b": 2, "a": 1, "c": 3})
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Nil(t, toFields(nil))
}

func TestNewNoOpLogger(t *testing.T) {
	l := NewNoOpLogger()
	l.Info("ignored", nil)
	assert.NotNil(t, l.WithFields(nil))
}
