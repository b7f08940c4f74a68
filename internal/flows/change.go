package flows

import (
	"context"
	"strings"

	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
)

// RunChangeMethod switches the pending challenge to the method labelled
// displayName on the method-selection page.
func RunChangeMethod(ctx context.Context, cont session.Continuation, displayName string, deps Deps) outcome.Outcome {
	normalizeDeps(&deps)

	original := cont.Clone()
	if original.SelectMethodURL == "" {
		return outcome.Challenge(outcome.InvalidMethod, original)
	}

	client, err := deps.Transport.NewClient(original.Stripped().TransportState)
	if err != nil {
		return outcome.Challenge(outcome.ConnectionError, original)
	}

	page, err := client.Get(ctx, original.SelectMethodURL)
	if err != nil {
		return outcome.Challenge(outcome.ConnectionError, original)
	}

	retry := original.Clone()
	retry.TransportState = client.State()

	methods, ok := deps.Extractor.MethodList(page.Body)
	if !ok {
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepChangeMethod, page.Body))
	}

	index := indexOf(methods, displayName)
	selected, known := method.FromDisplayName(displayName)
	if index < 0 || !known {
		return outcome.Challenge(outcome.InvalidMethod, retry)
	}

	form, ok := deps.Extractor.FormFields(page.Body, index)
	challengeID := form[deps.Fields.ChallengeID]
	if !ok || challengeID == "" {
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepChangeMethod, page.Body))
	}

	target := strings.TrimSuffix(deps.Endpoints.ChallengeBaseURL, "/") + "/" + selected.Tag() + "/" + challengeID
	resp, err := client.Post(ctx, target, form)
	if err != nil {
		return outcome.Challenge(outcome.ConnectionError, retry)
	}

	retry.TransportState = client.State()
	if resp.StatusCode >= 400 {
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepChangeMethod, resp.Body))
	}
	p, ok := pendingFrom(resp, selected, deps)
	if !ok {
		return outcome.Challenge(outcome.ParsingError, retry).WithDiagnostic(deps.record(ctx, StepChangeMethod, resp.Body))
	}

	next := session.Continuation{TransportState: client.State()}
	p.apply(&next)
	return outcome.Tfa(next, outcome.TFA{
		DefaultMethod: selected,
		PhoneNumber:   p.phoneNumber,
		Availability:  outcome.DefaultOnly,
	})
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
