package goSignin

import (
	"context"

	"go.uber.org/zap"
)

// ZapAuditSink forwards audit events to a zap logger. Failed steps log at
// Warn, everything else at Info.
type ZapAuditSink struct {
	logger *zap.Logger
}

func NewZapAuditSink(logger *zap.Logger) *ZapAuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAuditSink{logger: logger.Named("audit")}
}

func (s *ZapAuditSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event", event.EventType),
		zap.Bool("success", event.Success),
		zap.Time("at", event.Timestamp),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.Method != "" {
		fields = append(fields, zap.String("method", event.Method))
	}
	if event.Outcome != "" {
		fields = append(fields, zap.String("outcome", event.Outcome))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}
	if event.Diagnostic != "" {
		fields = append(fields, zap.String("diagnostic", event.Diagnostic))
	}
	if event.Duration > 0 {
		fields = append(fields, zap.Duration("duration", event.Duration))
	}
	for k, v := range event.Metadata {
		fields = append(fields, zap.String("meta."+k, v))
	}

	if event.Success {
		s.logger.Info("sign-in step", fields...)
		return
	}
	s.logger.Warn("sign-in step", fields...)
}
