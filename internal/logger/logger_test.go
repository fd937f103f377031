package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	if Get() == nil {
		t.Fatal("Get() before Init returned nil")
	}
	if err := Init("production", ""); err != nil {
		t.Fatalf("Init(production) error: %v", err)
	}
	if !Get().Core().Enabled(zapcore.InfoLevel) || Get().Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should log info but not debug")
	}
	if err := Init("development", "warn"); err != nil {
		t.Fatalf("Init(development, warn) error: %v", err)
	}
	if Get().Core().Enabled(zapcore.InfoLevel) {
		t.Error("level override should suppress info")
	}
	if err := Init("development", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	Sync()
}
