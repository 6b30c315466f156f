package utils

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	debug, err := NewLogger(true)
	if err != nil {
		t.Fatalf("NewLogger(true) error: %v", err)
	}
	if !debug.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug logger should enable debug level")
	}
	_ = debug.Sync()

	prod, err := NewLogger(false)
	if err != nil {
		t.Fatalf("NewLogger(false) error: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not enable debug level")
	}
	if !prod.Core().Enabled(zapcore.InfoLevel) {
		t.Error("production logger should enable info level")
	}
	_ = prod.Sync()
}
