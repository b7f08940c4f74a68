package flows

import (
	"context"
	"regexp"

	"github.com/MrEthical07/goSignin/diag"
	"github.com/MrEthical07/goSignin/extract"
	"github.com/MrEthical07/goSignin/internal/classify"
	"github.com/MrEthical07/goSignin/internal/dispatch"
	"github.com/MrEthical07/goSignin/transport"
)

// DefaultEmailPattern is the syntactic email check applied before any network call.
var DefaultEmailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// Endpoints are the remote locations the flows talk to.
type Endpoints struct {
	LoginURL    string
	AuthURL     string
	ContinueURL string
	SkipURL     string
	// ChallengeBaseURL is joined with a protocol tag and challenge id when a
	// method is selected.
	ChallengeBaseURL string
}

// Fields are the form field names the flows fill in or read.
type Fields struct {
	Email       string
	Password    string
	Continue    string
	ChallengeID string
}

// Step names used for diagnostic artifacts.
const (
	StepBeginLogin      = "begin login"
	StepDefaultMethod   = "default method"
	StepSelectAlternate = "select alternate"
	StepSubmitChallenge = "submit challenge"
	StepPromptAwait     = "prompt await"
	StepChangeMethod    = "change method"
	StepResendCode      = "resend code"
)

// Deps groups everything a flow needs. The root engine builds this once.
type Deps struct {
	Transport    transport.Factory
	Extractor    extract.Extractor
	Rules        classify.Rules
	Dispatcher   *dispatch.Dispatcher
	Diagnostics  diag.Sink
	Endpoints    Endpoints
	Fields       Fields
	EmailPattern *regexp.Regexp
}

func normalizeDeps(deps *Deps) {
	if deps.Extractor == nil {
		deps.Extractor = extract.Default()
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = dispatch.New(dispatch.DefaultConfig())
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = diag.NopSink{}
	}
	if deps.EmailPattern == nil {
		deps.EmailPattern = DefaultEmailPattern
	}
	if deps.Fields.ChallengeID == "" {
		deps.Fields.ChallengeID = "challengeId"
	}
}

func (d Deps) record(ctx context.Context, step, content string) string {
	return d.Diagnostics.Record(ctx, step, content)
}

func (d Deps) input(resp *transport.Response) classify.Input {
	return classify.Input{
		StatusCode:  resp.StatusCode,
		URL:         resp.URL,
		Body:        resp.Body,
		CookieCount: resp.CookieCount,
	}
}
