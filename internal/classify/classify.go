package classify

import (
	"net/url"
	"strings"

	"github.com/MrEthical07/goSignin/extract"
	"github.com/MrEthical07/goSignin/method"
)

// Input is the flattened response under classification.
type Input struct {
	StatusCode  int
	URL         string
	Body        string
	CookieCount int
}

// Rules holds the markers and locations used by every rule table.
type Rules struct {
	Markers extract.Markers
	// Threshold is the minimum cookie count that signals an authenticated session.
	Threshold int
	// LoginURL is the login form. A response redirected back to it means the
	// flow was bounced to the start. The credential endpoint does not count.
	LoginURL string
}

func (r Rules) authenticated(in Input) bool {
	return r.Threshold > 0 && in.CookieCount >= r.Threshold
}

func (r Rules) onChallenge(in Input) bool {
	return r.Markers.ChallengePath != "" && strings.Contains(in.URL, r.Markers.ChallengePath)
}

func (r Rules) atLogin(in Input) bool {
	if r.LoginURL == "" || in.URL == "" {
		return false
	}
	base := loginBase(r.LoginURL)
	return in.URL == r.LoginURL || in.URL == base || strings.HasPrefix(in.URL, base+"?")
}

// loginBase drops the query so "https://host/ServiceLogin?x" matches any query.
func loginBase(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

/* ==================== LOGIN ==================== */

// LoginResult classifies the credential POST response.
type LoginResult int

const (
	LoginUnrecognized LoginResult = iota
	LoginAuthenticated
	LoginInvalidCredentials
	LoginCaptcha
	LoginTfa
)

func (r LoginResult) String() string {
	switch r {
	case LoginAuthenticated:
		return "authenticated"
	case LoginInvalidCredentials:
		return "invalid_credentials"
	case LoginCaptcha:
		return "captcha"
	case LoginTfa:
		return "tfa"
	default:
		return "unrecognized"
	}
}

// Login classifies the credential POST response.
func (r Rules) Login(in Input) LoginResult {
	switch {
	case in.StatusCode >= 400:
		return LoginUnrecognized
	case r.authenticated(in) && !r.onChallenge(in):
		return LoginAuthenticated
	case extract.ContainsAny(in.Body, r.Markers.CredentialRejected):
		return LoginInvalidCredentials
	case extract.ContainsAny(in.Body, r.Markers.Captcha):
		return LoginCaptcha
	case r.atLogin(in):
		return LoginInvalidCredentials
	case r.onChallenge(in):
		return LoginTfa
	default:
		return LoginUnrecognized
	}
}

/* ==================== CHALLENGE ==================== */

// ChallengeInput is a challenge response plus what the flow knows about it.
type ChallengeInput struct {
	Input
	// Method is the method the challenge was submitted with.
	Method method.Method
	// ErrorText is the inline error message of the page, if any.
	ErrorText    string
	HasErrorText bool
}

// ChallengeResult classifies a challenge submission response.
type ChallengeResult int

const (
	ChallengeUnrecognized ChallengeResult = iota
	ChallengeSuccess
	ChallengeWrongCode
	ChallengeEmptyCode
	ChallengePromptDenied
	ChallengeTooManyAttempts
	ChallengeResend
	ChallengeProtocolMismatch
	ChallengeTimedOut
)

func (r ChallengeResult) String() string {
	switch r {
	case ChallengeSuccess:
		return "success"
	case ChallengeWrongCode:
		return "wrong_code"
	case ChallengeEmptyCode:
		return "empty_code"
	case ChallengePromptDenied:
		return "prompt_denied"
	case ChallengeTooManyAttempts:
		return "too_many_attempts"
	case ChallengeResend:
		return "resend"
	case ChallengeProtocolMismatch:
		return "protocol_mismatch"
	case ChallengeTimedOut:
		return "timed_out"
	default:
		return "unrecognized"
	}
}

type challengeRule struct {
	result ChallengeResult
	match  func(Rules, ChallengeInput) bool
}

var challengeRules = []challengeRule{
	{ChallengeWrongCode, func(r Rules, in ChallengeInput) bool {
		return in.HasErrorText && extract.ContainsAny(in.ErrorText, r.Markers.WrongCode)
	}},
	{ChallengeEmptyCode, func(r Rules, in ChallengeInput) bool {
		return in.HasErrorText && extract.ContainsAny(in.ErrorText, r.Markers.EmptyCode)
	}},
	{ChallengePromptDenied, func(r Rules, in ChallengeInput) bool {
		return extract.ContainsAny(in.Body, r.Markers.PromptDenied)
	}},
	{ChallengeTooManyAttempts, func(r Rules, in ChallengeInput) bool {
		return extract.ContainsAny(in.Body, r.Markers.TooManyAttempts)
	}},
	{ChallengeResend, func(r Rules, in ChallengeInput) bool {
		return in.Method == method.SMS && extract.ContainsAny(in.Body, r.Markers.ResendCode)
	}},
	{ChallengeProtocolMismatch, func(_ Rules, in ChallengeInput) bool {
		served, ok := servedTag(in.URL)
		return ok && in.Method.Valid() && served != in.Method.Tag()
	}},
	{ChallengeTimedOut, func(r Rules, in ChallengeInput) bool {
		return r.atLogin(in.Input)
	}},
}

// Challenge classifies a challenge submission response. A met cookie threshold
// wins over every marker.
func (r Rules) Challenge(in ChallengeInput) ChallengeResult {
	if r.authenticated(in.Input) {
		return ChallengeSuccess
	}
	for _, rule := range challengeRules {
		if rule.match(r, in) {
			return rule.result
		}
	}
	return ChallengeUnrecognized
}

/* ==================== DEFAULT METHOD ==================== */

// DefaultResult reports how default-method detection went.
type DefaultResult int

const (
	DefaultUnrecognized DefaultResult = iota
	DefaultFound
	// DefaultUnavailable means the page says the default method cannot be used now.
	DefaultUnavailable
)

// DefaultMethod scans a challenge page for the method the remote side picked.
func (r Rules) DefaultMethod(body string) (method.Method, DefaultResult) {
	if extract.ContainsAny(body, r.Markers.DefaultUnavailable) {
		return 0, DefaultUnavailable
	}
	if extract.ContainsAny(body, r.Markers.PromptDefault) {
		return method.Prompt, DefaultFound
	}
	for _, info := range method.All() {
		if strings.Contains(body, info.DisplayName) {
			return info.Method, DefaultFound
		}
	}
	return 0, DefaultUnrecognized
}

// servedTag returns the protocol tag of a "<challenge>/<tag>/<id>" URL. Tags
// outside the method catalog are returned too. Endpoints without an id
// segment, such as the skip URL, report false.
func servedTag(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == method.ChallengeSegment && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}
