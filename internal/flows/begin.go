package flows

import (
	"context"
	"strings"

	"github.com/MrEthical07/goSignin/internal/classify"
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
)

// RunBeginLogin submits credentials and, when a second factor is required,
// discovers the default method and the list of alternates.
func RunBeginLogin(ctx context.Context, email, password string, deps Deps) outcome.Outcome {
	normalizeDeps(&deps)

	if !deps.EmailPattern.MatchString(strings.TrimSpace(email)) {
		return outcome.Fatal(outcome.InvalidCredentials)
	}

	client, err := deps.Transport.NewClient(transport.State{})
	if err != nil {
		return outcome.Fatal(outcome.ConnectionError)
	}

	form, err := client.Get(ctx, deps.Endpoints.LoginURL)
	if err != nil {
		return outcome.Fatal(outcome.ConnectionError)
	}
	payload := deps.Extractor.HiddenFields(form.Body)
	if len(payload) == 0 {
		return outcome.Fatal(outcome.ParsingError).WithDiagnostic(deps.record(ctx, StepBeginLogin, form.Body))
	}

	payload[deps.Fields.Email] = strings.TrimSpace(email)
	payload[deps.Fields.Password] = password
	if deps.Fields.Continue != "" && deps.Endpoints.ContinueURL != "" {
		payload[deps.Fields.Continue] = deps.Endpoints.ContinueURL
	}

	resp, err := client.Post(ctx, deps.Endpoints.AuthURL, payload)
	if err != nil {
		return outcome.Fatal(outcome.ConnectionError)
	}

	switch deps.Rules.Login(deps.input(resp)) {
	case classify.LoginAuthenticated:
		return outcome.Success(client.State())
	case classify.LoginInvalidCredentials:
		return outcome.Fatal(outcome.InvalidCredentials)
	case classify.LoginCaptcha:
		return outcome.Fatal(outcome.CaptchaRequired)
	case classify.LoginTfa:
		return discoverTfa(ctx, client, resp, deps)
	default:
		return outcome.Fatal(outcome.ParsingError).WithDiagnostic(deps.record(ctx, StepBeginLogin, resp.Body))
	}
}

// stepFailure is why a discovery lookup failed.
type stepFailure struct {
	kind       outcome.Kind
	diagnostic string
}

// pending is the challenge a page is waiting on.
type pending struct {
	url         string
	payload     map[string]string
	queryParams *session.QueryParams
	phoneNumber string
}

// pendingFrom reads the challenge form off a page served for m.
func pendingFrom(resp *transport.Response, m method.Method, deps Deps) (pending, bool) {
	payload := deps.Extractor.HiddenFields(resp.Body)
	if len(payload) == 0 {
		return pending{}, false
	}
	p := pending{url: resp.URL, payload: payload}
	switch m {
	case method.Prompt:
		if params, ok := deps.Extractor.PromptParams(resp.Body); ok {
			p.queryParams = &session.QueryParams{Key: params.Key, TxID: params.TxID}
		}
	case method.SMS:
		p.phoneNumber = deps.Extractor.PhoneNumber(resp.Body)
	}
	return p, true
}

func (p pending) apply(c *session.Continuation) {
	c.PendingURL = p.url
	c.PendingPayload = p.payload
	c.QueryParams = p.queryParams
}

func discoverTfa(ctx context.Context, client transport.Client, resp *transport.Response, deps Deps) outcome.Outcome {
	var (
		defaultMethod method.Method
		challenge     pending
		defaultFail   *stepFailure
	)
	m, res := deps.Rules.DefaultMethod(resp.Body)
	switch res {
	case classify.DefaultFound:
		p, ok := pendingFrom(resp, m, deps)
		if ok {
			defaultMethod, challenge = m, p
		} else {
			defaultFail = &stepFailure{kind: outcome.ParsingError, diagnostic: deps.record(ctx, StepDefaultMethod, resp.Body)}
		}
	case classify.DefaultUnavailable:
		defaultFail = &stepFailure{kind: outcome.ParsingError}
	default:
		defaultFail = &stepFailure{kind: outcome.ParsingError, diagnostic: deps.record(ctx, StepDefaultMethod, resp.Body)}
	}

	// Enumeration runs even when default detection failed.
	methods, selectURL, listFail := enumerateMethods(ctx, client, resp.URL, deps)

	cont := session.Continuation{TransportState: client.State()}
	switch {
	case defaultFail == nil && listFail == nil:
		challenge.apply(&cont)
		cont.SelectMethodURL = selectURL
		return outcome.Tfa(cont, outcome.TFA{
			DefaultMethod: defaultMethod,
			Methods:       methods,
			SelectURL:     selectURL,
			PhoneNumber:   challenge.phoneNumber,
			Availability:  outcome.Both,
		})
	case defaultFail == nil:
		challenge.apply(&cont)
		return outcome.Tfa(cont, outcome.TFA{
			DefaultMethod: defaultMethod,
			PhoneNumber:   challenge.phoneNumber,
			Availability:  outcome.DefaultOnly,
		}).WithDiagnostic(listFail.diagnostic)
	case listFail == nil:
		cont.SelectMethodURL = selectURL
		return outcome.MethodList(cont, methods, selectURL).WithDiagnostic(defaultFail.diagnostic)
	}

	if listFail.kind == outcome.ConnectionError {
		return outcome.Fatal(outcome.ConnectionError)
	}
	diagnostic := listFail.diagnostic
	if diagnostic == "" {
		diagnostic = defaultFail.diagnostic
	}
	return outcome.Fatal(outcome.ParsingError).WithDiagnostic(diagnostic)
}

// enumerateMethods fetches the challenge page at currentURL, posts its form to the
// skip endpoint and reads the method list from where that lands.
func enumerateMethods(ctx context.Context, client transport.Client, currentURL string, deps Deps) ([]string, string, *stepFailure) {
	page, err := client.Get(ctx, currentURL)
	if err != nil {
		return nil, "", &stepFailure{kind: outcome.ConnectionError}
	}
	payload := deps.Extractor.HiddenFields(page.Body)
	if len(payload) == 0 {
		return nil, "", &stepFailure{kind: outcome.ParsingError, diagnostic: deps.record(ctx, StepSelectAlternate, page.Body)}
	}

	skipped, err := client.Post(ctx, deps.Endpoints.SkipURL, payload)
	if err != nil {
		return nil, "", &stepFailure{kind: outcome.ConnectionError}
	}

	list, err := client.Get(ctx, skipped.URL)
	if err != nil {
		return nil, "", &stepFailure{kind: outcome.ConnectionError}
	}
	methods, ok := deps.Extractor.MethodList(list.Body)
	if !ok || len(methods) == 0 {
		return nil, "", &stepFailure{kind: outcome.ParsingError, diagnostic: deps.record(ctx, StepSelectAlternate, list.Body)}
	}
	return methods, skipped.URL, nil
}
