package goSignin

import (
	"context"
	"strings"
	"time"

	"github.com/MrEthical07/goSignin/outcome"
)

const (
	opBeginLogin      = "begin_login"
	opSubmitChallenge = "submit_challenge"
	opChangeMethod    = "change_method"
	opResendCode      = "resend_code"
)

func (e *Engine) emitAudit(ctx context.Context, op, email string, m Method, out Outcome, elapsed time.Duration) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  op,
		RequestID:  RequestIDFromContext(ctx),
		Email:      MaskEmail(email),
		IP:         clientIPFromContext(ctx),
		Outcome:    out.Variant.String(),
		Success:    !out.Failed(),
		Diagnostic: out.Diagnostic,
		Duration:   elapsed,
	}
	if m.Valid() {
		event.Method = m.String()
	}
	if out.Kind != outcome.KindNone {
		event.Error = out.Kind.String()
	}
	if out.Variant == outcome.TfaRequired || out.Variant == outcome.MethodListAvailable {
		event.Metadata = map[string]string{"availability": out.Availability.String()}
	}

	e.audit.Emit(ctx, event)
}

// MaskEmail keeps the first character of the local part and the domain:
// "alice@example.com" becomes "a***@example.com".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
