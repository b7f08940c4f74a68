package flows

import (
	"context"

	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
)

// RunResendCode asks for a new SMS code using the resend form captured by a
// previous challenge response.
func RunResendCode(ctx context.Context, cont session.Continuation, deps Deps) outcome.Outcome {
	normalizeDeps(&deps)

	original := cont.Clone()
	if original.Resend == nil || original.Resend.URL == "" {
		return outcome.Challenge(outcome.InvalidMethod, original)
	}

	client, err := deps.Transport.NewClient(original.Stripped().TransportState)
	if err != nil {
		return outcome.Challenge(outcome.ConnectionError, original)
	}

	resp, err := client.Post(ctx, original.Resend.URL, original.Resend.Payload)
	if err != nil {
		return outcome.Challenge(outcome.ConnectionError, original)
	}

	retry := original.Clone()
	retry.TransportState = client.State()
	if resp.StatusCode >= 400 {
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepResendCode, resp.Body))
	}
	p, ok := pendingFrom(resp, method.SMS, deps)
	if !ok {
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepResendCode, resp.Body))
	}

	next := session.Continuation{TransportState: client.State(), SelectMethodURL: original.SelectMethodURL}
	p.apply(&next)
	return outcome.Tfa(next, outcome.TFA{
		DefaultMethod: method.SMS,
		PhoneNumber:   p.phoneNumber,
		Availability:  outcome.DefaultOnly,
	})
}
