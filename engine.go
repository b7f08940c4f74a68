package goSignin

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSignin/diag"
	internalaudit "github.com/MrEthical07/goSignin/internal/audit"
	"github.com/MrEthical07/goSignin/internal/flows"
	"github.com/MrEthical07/goSignin/internal/rate"
	"github.com/MrEthical07/goSignin/jwt"
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
	"go.uber.org/zap"
)

// Engine drives the sign-in conversation. It holds no per-user state: every
// step takes the caller's continuation and returns a new one inside the
// [Outcome]. Safe for concurrent use after [Builder.Build].
type Engine struct {
	config      Config
	flows       flows.Service
	jwtManager  *jwt.Manager
	codec       *session.Codec
	rateLimiter *rate.Limiter
	audit       *internalaudit.Dispatcher
	recorder    *diag.Recorder
	metrics     *Metrics
	logger      *zap.Logger
}

// Close drains the audit dispatcher and any diagnostic recorder the engine
// created. Injected sinks are left open.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.recorder != nil {
		e.recorder.Close()
	}
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// DiagnosticsDropped reports artifacts lost to a full recorder buffer.
func (e *Engine) DiagnosticsDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.recorder.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// SessionTTL is the lifetime of sealed continuations.
func (e *Engine) SessionTTL() time.Duration {
	if e == nil {
		return 0
	}
	return e.codec.TTL()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.flows.Initialized() && e.codec != nil
}

func (e *Engine) notReady(ctx context.Context, op string) Outcome {
	if e != nil && e.logger != nil {
		e.logger.Error("engine used before Build", zap.String("op", op), zap.String("request_id", RequestIDFromContext(ctx)))
	}
	return outcome.Fatal(outcome.ConnectionError)
}

/*
====================================
OPERATIONS
====================================
*/

// BeginLogin submits email and password and reports whether the session is
// authenticated, needs a second factor, or failed.
func (e *Engine) BeginLogin(ctx context.Context, email, password string) Outcome {
	if !e.ready() {
		return e.notReady(ctx, opBeginLogin)
	}
	start := time.Now()
	ip := clientIPFromContext(ctx)

	if e.rateLimiter != nil {
		err := e.rateLimiter.CheckLogin(ctx, email, ip)
		switch {
		case errors.Is(err, rate.ErrRateLimited):
			out := outcome.Fatal(outcome.RateLimited)
			e.metricInc(MetricLoginRateLimited)
			e.finish(ctx, opBeginLogin, email, 0, out, start)
			return out
		case err != nil:
			// Fail open: the limiter protects the upstream account, not this service.
			e.logger.Warn("rate limiter unavailable", zap.Error(err))
		}
	}

	out := e.flows.BeginLogin(ctx, email, password)

	if e.rateLimiter != nil {
		e.trackAttempt(ctx, email, ip, out)
	}
	e.finish(ctx, opBeginLogin, email, out.DefaultMethod, out, start)
	return out
}

// SubmitChallenge answers the pending second-factor challenge with code. For
// [method.Prompt] the code is ignored and the engine waits for the user to
// approve the prompt on their device.
func (e *Engine) SubmitChallenge(ctx context.Context, cont Continuation, m Method, code string) Outcome {
	if !e.ready() {
		return e.notReady(ctx, opSubmitChallenge)
	}
	start := time.Now()
	out := e.flows.SubmitChallenge(ctx, cont, m, code)
	e.finish(ctx, opSubmitChallenge, "", m, out, start)
	return out
}

// ChangeMethod selects the alternate method whose picker label equals
// displayName exactly.
func (e *Engine) ChangeMethod(ctx context.Context, cont Continuation, displayName string) Outcome {
	if !e.ready() {
		return e.notReady(ctx, opChangeMethod)
	}
	start := time.Now()
	out := e.flows.ChangeMethod(ctx, cont, displayName)
	selected, _ := method.FromDisplayName(displayName)
	e.finish(ctx, opChangeMethod, "", selected, out, start)
	return out
}

// ResendCode asks for a new SMS code using the resend form captured by a
// previous [outcome.ResendAvailable] result.
func (e *Engine) ResendCode(ctx context.Context, cont Continuation) Outcome {
	if !e.ready() {
		return e.notReady(ctx, opResendCode)
	}
	start := time.Now()
	out := e.flows.ResendCode(ctx, cont)
	e.finish(ctx, opResendCode, "", method.SMS, out, start)
	return out
}

// CleanContinuation strips every orchestration field and returns the bare
// cookie state. cont is not modified.
func (e *Engine) CleanContinuation(cont Continuation) TransportState {
	return flows.CleanContinuation(cont)
}

/*
====================================
CONTINUATION SEALING
====================================
*/

// SealContinuation encodes cont as a signed, expiring blob for the caller.
func (e *Engine) SealContinuation(cont Continuation) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	return e.codec.Seal(cont)
}

// SealState seals a bare transport state, as returned with an authenticated
// outcome.
func (e *Engine) SealState(state TransportState) (string, error) {
	return e.SealContinuation(session.Continuation{TransportState: state.Clone()})
}

// OpenContinuation verifies and decodes a blob produced by SealContinuation.
// Any failure is reported as [ErrContinuationInvalid].
func (e *Engine) OpenContinuation(blob string) (Continuation, error) {
	if e == nil || e.codec == nil {
		return Continuation{}, ErrEngineNotReady
	}
	cont, err := e.codec.Open(blob)
	if err != nil {
		e.metricInc(MetricContinuationRejected)
		return Continuation{}, err
	}
	return cont, nil
}

/*
====================================
BOOKKEEPING
====================================
*/

func (e *Engine) trackAttempt(ctx context.Context, email, ip string, out Outcome) {
	var err error
	switch {
	case out.Kind == outcome.InvalidCredentials, out.Kind == outcome.CaptchaRequired:
		err = e.rateLimiter.IncrementLogin(ctx, email, ip)
		if errors.Is(err, rate.ErrRateLimited) {
			err = nil
		}
	case out.Variant == outcome.Authenticated, out.Variant == outcome.TfaRequired, out.Variant == outcome.MethodListAvailable:
		err = e.rateLimiter.ResetLogin(ctx, email, ip)
	}
	if err != nil {
		e.logger.Warn("rate limiter update failed", zap.Error(err))
	}
}

func (e *Engine) finish(ctx context.Context, op, email string, m Method, out Outcome, start time.Time) {
	elapsed := time.Since(start)
	e.countOutcome(op, out)
	if id, ok := latencyMetric[op]; ok {
		e.metrics.Observe(id, elapsed)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("variant", out.Variant.String()),
		zap.Duration("elapsed", elapsed),
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if out.Kind != outcome.KindNone {
		fields = append(fields, zap.String("kind", out.Kind.String()))
	}
	if out.Diagnostic != "" {
		fields = append(fields, zap.String("diagnostic", out.Diagnostic))
	}
	switch out.Kind {
	case outcome.ParsingError, outcome.ConnectionError:
		e.logger.Warn("sign-in step failed", fields...)
	default:
		e.logger.Debug("sign-in step", fields...)
	}

	e.emitAudit(ctx, op, email, m, out, elapsed)
}

var latencyMetric = map[string]MetricID{
	opBeginLogin:      MetricBeginLoginLatency,
	opSubmitChallenge: MetricSubmitChallengeLatency,
	opChangeMethod:    MetricChangeMethodLatency,
	opResendCode:      MetricResendCodeLatency,
}

func (e *Engine) countOutcome(op string, out Outcome) {
	switch out.Kind {
	case outcome.ParsingError:
		e.metricInc(MetricParsingError)
	case outcome.ConnectionError:
		e.metricInc(MetricConnectionError)
	case outcome.InvalidCredentials:
		e.metricInc(MetricInvalidCredentials)
	case outcome.CaptchaRequired:
		e.metricInc(MetricCaptchaRequired)
	case outcome.ResendAvailable:
		e.metricInc(MetricResendOffered)
	}

	switch op {
	case opBeginLogin:
		switch out.Variant {
		case outcome.Authenticated:
			e.metricInc(MetricLoginAuthenticated)
		case outcome.TfaRequired, outcome.MethodListAvailable:
			e.metricInc(MetricLoginTfaRequired)
		default:
			if out.Kind != outcome.RateLimited {
				e.metricInc(MetricLoginFailure)
			}
		}
	case opSubmitChallenge:
		switch {
		case out.Variant == outcome.Authenticated:
			e.metricInc(MetricChallengeSuccess)
		case out.Kind == outcome.WrongCode, out.Kind == outcome.EmptyCode,
			out.Kind == outcome.PromptDenied, out.Kind == outcome.TimedOut:
			e.metricInc(MetricChallengeRetry)
		case out.Kind == outcome.MethodFallbackDefault, out.Kind == outcome.MethodFallbackList:
			e.metricInc(MetricChallengeFallback)
		case out.Kind != outcome.ResendAvailable:
			e.metricInc(MetricChallengeFailure)
		}
	case opChangeMethod:
		if out.Failed() {
			e.metricInc(MetricMethodChangeFailure)
		} else {
			e.metricInc(MetricMethodChanged)
		}
	case opResendCode:
		if out.Failed() {
			e.metricInc(MetricResendFailure)
		} else {
			e.metricInc(MetricResendSuccess)
		}
	}
}

// countingSink counts recorded artifacts for the diagnostics metric.
type countingSink struct {
	sink    diag.Sink
	metrics *Metrics
}

func (s countingSink) Record(ctx context.Context, step, content string) string {
	id := s.sink.Record(ctx, step, content)
	if id != "" {
		s.metrics.Inc(MetricDiagnosticRecorded)
	}
	return id
}
