package goSignin

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAuditSinkLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewZapAuditSink(zap.New(core))

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now(),
		EventType: "submit_challenge",
		Method:    "Google Authenticator",
		Outcome:   "authenticated",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{
		Timestamp:  time.Now(),
		EventType:  "begin_login",
		Email:      "a***@example.com",
		Outcome:    "fatal_error",
		Error:      "parsing_error",
		Diagnostic: "begin-login-x.html",
		Metadata:   map[string]string{"availability": "none"},
	})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected levels %s %s", entries[0].Level, entries[1].Level)
	}
	if entries[0].LoggerName != "audit" {
		t.Fatalf("expected named logger, got %q", entries[0].LoggerName)
	}

	ctx := entries[1].ContextMap()
	if ctx["email"] != "a***@example.com" || ctx["error"] != "parsing_error" || ctx["meta.availability"] != "none" {
		t.Fatalf("unexpected fields %+v", ctx)
	}
}

func TestNilZapAuditSink(t *testing.T) {
	var s *ZapAuditSink
	s.Emit(context.Background(), AuditEvent{})

	if NewZapAuditSink(nil) == nil {
		t.Fatalf("expected sink with nop logger")
	}
}
