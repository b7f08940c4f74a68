package flows

import (
	"context"

	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
)

// Service is the flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	normalizeDeps(&deps)
	return Service{deps: deps}
}

// Initialized reports whether the service has a transport.
func (s Service) Initialized() bool {
	return s.deps.Transport != nil
}

func (s Service) BeginLogin(ctx context.Context, email, password string) outcome.Outcome {
	return RunBeginLogin(ctx, email, password, s.deps)
}

func (s Service) SubmitChallenge(ctx context.Context, cont session.Continuation, m method.Method, code string) outcome.Outcome {
	return RunSubmitChallenge(ctx, cont, m, code, s.deps)
}

func (s Service) ChangeMethod(ctx context.Context, cont session.Continuation, displayName string) outcome.Outcome {
	return RunChangeMethod(ctx, cont, displayName, s.deps)
}

func (s Service) ResendCode(ctx context.Context, cont session.Continuation) outcome.Outcome {
	return RunResendCode(ctx, cont, s.deps)
}

// CleanContinuation strips orchestration fields and returns the bare transport state.
func CleanContinuation(cont session.Continuation) transport.State {
	c := cont.Clone()
	return c.Clean()
}
