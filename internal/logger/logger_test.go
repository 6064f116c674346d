package logger

import (
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/deppfellow/medical-prescription/internal/config"
)

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := map[zerolog.Level]tracelog.LogLevel{
		zerolog.TraceLevel: tracelog.LogLevelTrace,
		zerolog.DebugLevel: tracelog.LogLevelDebug,
		zerolog.InfoLevel:  tracelog.LogLevelInfo,
		zerolog.WarnLevel:  tracelog.LogLevelWarn,
		zerolog.ErrorLevel: tracelog.LogLevelError,
		zerolog.Disabled:   tracelog.LogLevelNone,
	}

	for in, want := range tests {
		if got := GetPgxTraceLogLevel(in); got != want {
			t.Errorf("GetPgxTraceLogLevel(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerServiceWithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	svc := NewLoggerService(cfg)
	if svc.GetApplication() != nil {
		t.Fatal("expected no New Relic application without a license key")
	}
	svc.Shutdown()

	l := NewLoggerWithService(cfg, svc)
	if l.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", l.GetLevel())
	}
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	l := zerolog.Nop()
	if got := WithTraceContext(l, nil); got.GetLevel() != l.GetLevel() {
		t.Error("nil transaction should return the logger unchanged")
	}
}
