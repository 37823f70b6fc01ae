package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	log, err := New("debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	log := Must(New("chatty"))
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled for unknown level")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be enabled")
	}
}

func TestNamedWithNilBase(t *testing.T) {
	if Named(nil, "x") == nil {
		t.Fatal("expected a no-op logger")
	}
}
