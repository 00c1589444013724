package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	want := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	logs := recorded.All()
	if len(logs) != len(want) {
		t.Fatalf("expected %d logs, got %d", len(want), len(logs))
	}
	for i, entry := range logs {
		if entry.Level != want[i] {
			t.Errorf("log %d: expected level %v, got %v", i, want[i], entry.Level)
		}
	}
}

func TestZapLogger_FieldsAndWith(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	log := NewFromZap(zap.New(core)).With(F("entity", "3v1"))

	log.Info("behaviour changed",
		F("from", "patrol"),
		F("to", "chase"),
		F("frame", uint64(12)),
		F("dist", 4.5),
		F("err", errors.New("boom")),
	)

	logs := recorded.All()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	ctx := logs[0].ContextMap()
	if ctx["entity"] != "3v1" {
		t.Errorf("expected inherited entity field, got %v", ctx["entity"])
	}
	if ctx["to"] != "chase" {
		t.Errorf("expected to=chase, got %v", ctx["to"])
	}
	if ctx["frame"] != uint64(12) {
		t.Errorf("expected frame=12, got %v", ctx["frame"])
	}
	if ctx["err"] != "boom" {
		t.Errorf("expected err=boom, got %v", ctx["err"])
	}
}

func TestNewZapLogger_BadLevelFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	log, err := NewZapLogger(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.zap.Core().Enabled(zapcore.InfoLevel) || log.zap.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected info level fallback")
	}
}

func TestNop(t *testing.T) {
	log := NewNop().With(F("a", 1))
	log.Info("ignored")
	if err := log.Sync(); err != nil {
		t.Fatalf("nop sync: %v", err)
	}
}
