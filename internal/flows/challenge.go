package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goSignin/internal/classify"
	"github.com/MrEthical07/goSignin/internal/dispatch"
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
)

// RunSubmitChallenge answers the pending challenge with method m and classifies
// the response. Failures that leave the challenge open return a continuation the
// caller can retry with.
func RunSubmitChallenge(ctx context.Context, cont session.Continuation, m method.Method, code string, deps Deps) outcome.Outcome {
	normalizeDeps(&deps)

	original := cont.Clone()
	if !m.Valid() || !original.HasPending() {
		return outcome.Challenge(outcome.InvalidMethod, original)
	}

	work := cont.Clone()
	req := dispatch.Request{
		Method:      m,
		PendingURL:  work.PendingURL,
		Payload:     work.PendingPayload,
		QueryParams: work.QueryParams,
		Code:        code,
	}
	state := work.Clean()

	client, err := deps.Transport.NewClient(state)
	if err != nil {
		return outcome.Challenge(outcome.ConnectionError, original)
	}

	resp, err := deps.Dispatcher.Submit(ctx, client, req)

	retry := original.Clone()
	retry.TransportState = client.State()

	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrConnection):
		return outcome.Challenge(outcome.ConnectionError, original)
	case errors.Is(err, dispatch.ErrMissingPromptParams):
		id := deps.record(ctx, StepPromptAwait, fmt.Sprintf("prompt parameters missing for %s", req.PendingURL))
		return outcome.Challenge(outcome.ParsingError, original).WithDiagnostic(id)
	case errors.Is(err, dispatch.ErrPromptTimeout):
		return outcome.Challenge(outcome.TimedOut, retry)
	case errors.Is(err, dispatch.ErrPromptRejected):
		content := err.Error()
		if resp != nil {
			content = resp.Body
		}
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepPromptAwait, content))
	case errors.Is(err, dispatch.ErrInvalidMethod):
		return outcome.Challenge(outcome.InvalidMethod, original)
	default:
		return outcome.Challenge(outcome.ConnectionError, original)
	}

	errText, hasErrText := deps.Extractor.ErrorText(resp.Body)
	result := deps.Rules.Challenge(classify.ChallengeInput{
		Input:        deps.input(resp),
		Method:       m,
		ErrorText:    errText,
		HasErrorText: hasErrText,
	})

	switch result {
	case classify.ChallengeSuccess:
		return outcome.Success(client.State())
	case classify.ChallengeWrongCode:
		return outcome.Challenge(outcome.WrongCode, retry)
	case classify.ChallengeEmptyCode:
		return outcome.Challenge(outcome.EmptyCode, retry)
	case classify.ChallengePromptDenied:
		return outcome.Challenge(outcome.PromptDenied, retry)
	case classify.ChallengeTimedOut:
		return outcome.Challenge(outcome.TimedOut, retry)

	case classify.ChallengeTooManyAttempts:
		methods, selectURL, fail := enumerateMethods(ctx, client, resp.URL, deps)
		if fail != nil {
			retry.TransportState = client.State()
			return outcome.Challenge(fail.kind, retry).WithDiagnostic(fail.diagnostic)
		}
		next := session.Continuation{TransportState: client.State(), SelectMethodURL: selectURL}
		return outcome.Challenge(outcome.MethodFallbackList, next).WithMethods(methods, selectURL)

	case classify.ChallengeResend:
		retry.Resend = &session.ResendInfo{URL: resp.URL, Payload: deps.Extractor.HiddenFields(resp.Body)}
		return outcome.Challenge(outcome.ResendAvailable, retry)

	case classify.ChallengeProtocolMismatch:
		next := session.Continuation{TransportState: client.State(), SelectMethodURL: original.SelectMethodURL}
		served, known := method.FromURL(resp.URL)
		if !known {
			// No catalog method to submit to; the caller has to pick another one.
			return outcome.Challenge(outcome.MethodFallbackDefault, next)
		}
		p, ok := pendingFrom(resp, served, deps)
		if !ok {
			return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepSubmitChallenge, resp.Body))
		}
		p.apply(&next)
		o := outcome.Challenge(outcome.MethodFallbackDefault, next).WithDefaultMethod(served)
		o.PhoneNumber = p.phoneNumber
		return o

	default:
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepSubmitChallenge, resp.Body))
	}
}
