package logger

import (
	"errors"
	"testing"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	log.Info("note on",
		log.Field().Uint8("note", 60),
		log.Field().Float64("frequency", 261.63),
		log.Field().Error("error", errors.New("boom")),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["note"] != uint8(60) {
		t.Errorf("note field = %v, want 60", ctx["note"])
	}
	if ctx["error"] != "boom" {
		t.Errorf("error field = %v, want boom", ctx["error"])
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", entries[0].Level)
	}
}

func TestZapLoggerSetLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	log.Debug("hidden")
	if logs.Len() != 0 {
		t.Fatalf("debug entry logged at info level")
	}

	log.SetLevel(contracts.DebugLevel)
	log.Debug("visible")
	if logs.FilterMessage("visible").Len() != 1 {
		t.Fatalf("debug entry not logged after SetLevel(DebugLevel)")
	}

	log.SetLevel(contracts.ErrorLevel)
	log.Warn("dropped")
	log.Error("kept")
	if logs.FilterMessage("dropped").Len() != 0 || logs.FilterMessage("kept").Len() != 1 {
		t.Fatalf("unexpected entries at error level: %v", logs.All())
	}
}

func TestNopLoggerIgnoresDestination(t *testing.T) {
	log := NewNopLogger()
	log.SetDestination(contracts.FileLog, t.TempDir()+"/ignored.log")
	log.Info("nothing happens")
}
