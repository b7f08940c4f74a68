package outcome

import (
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
)

// Variant tags which shape of result an Outcome holds.
type Variant int

const (
	Authenticated Variant = iota + 1
	TfaRequired
	MethodListAvailable
	ChallengeError
	FatalError
)

func (v Variant) String() string {
	switch v {
	case Authenticated:
		return "authenticated"
	case TfaRequired:
		return "tfa_required"
	case MethodListAvailable:
		return "method_list_available"
	case ChallengeError:
		return "challenge_error"
	case FatalError:
		return "fatal_error"
	default:
		return "unknown"
	}
}

// Kind is the closed error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	ConnectionError
	ParsingError
	InvalidCredentials
	CaptchaRequired
	WrongCode
	EmptyCode
	PromptDenied
	TimedOut
	InvalidMethod
	MethodFallbackDefault
	MethodFallbackList
	// ResendAvailable means the SMS page offers a resend; the challenge is still open.
	ResendAvailable
	// RateLimited is produced by request-facing layers only.
	RateLimited
)

var kindNames = [...]string{
	KindNone:              "none",
	ConnectionError:       "connection_error",
	ParsingError:          "parsing_error",
	InvalidCredentials:    "invalid_credentials",
	CaptchaRequired:       "captcha_required",
	WrongCode:             "wrong_code",
	EmptyCode:             "empty_code",
	PromptDenied:          "prompt_denied",
	TimedOut:              "timed_out",
	InvalidMethod:         "invalid_method",
	MethodFallbackDefault: "method_fallback_default",
	MethodFallbackList:    "method_fallback_list",
	ResendAvailable:       "resend_available",
	RateLimited:           "rate_limited",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Availability reports which alternatives two-factor discovery produced.
type Availability int

const (
	AvailabilityNone Availability = iota
	Both
	DefaultOnly
	ListOnly
)

func (a Availability) String() string {
	switch a {
	case Both:
		return "both"
	case DefaultOnly:
		return "default_only"
	case ListOnly:
		return "list_only"
	default:
		return "none"
	}
}

// Outcome is the result of a flow operation. Which fields are populated depends on
// Variant:
//
//   - Authenticated: TransportState.
//   - TfaRequired: Continuation, DefaultMethod, Availability, Methods and SelectURL
//     when a method list was found, PhoneNumber for SMS.
//   - MethodListAvailable: Continuation, Methods, SelectURL.
//   - ChallengeError: Kind, Continuation (for retry), Methods and SelectURL for
//     MethodFallbackList, DefaultMethod for MethodFallbackDefault.
//   - FatalError: Kind, Diagnostic for ParsingError.
type Outcome struct {
	Variant        Variant
	Kind           Kind
	Continuation   *session.Continuation
	TransportState *transport.State
	DefaultMethod  method.Method
	Methods        []string
	SelectURL      string
	PhoneNumber    string
	Availability   Availability
	// Diagnostic is the artifact id of the recorded page, when one was recorded.
	Diagnostic string
}

// Success builds an Authenticated outcome.
func Success(state transport.State) Outcome {
	s := state.Clone()
	return Outcome{Variant: Authenticated, TransportState: &s}
}

// TFA describes a pending two-factor challenge.
type TFA struct {
	DefaultMethod method.Method
	Methods       []string
	SelectURL     string
	PhoneNumber   string
	Availability  Availability
}

// Tfa builds a TfaRequired outcome.
func Tfa(cont session.Continuation, t TFA) Outcome {
	return Outcome{
		Variant:       TfaRequired,
		Continuation:  &cont,
		DefaultMethod: t.DefaultMethod,
		Methods:       cloneStrings(t.Methods),
		SelectURL:     t.SelectURL,
		PhoneNumber:   t.PhoneNumber,
		Availability:  t.Availability,
	}
}

// MethodList builds a MethodListAvailable outcome.
func MethodList(cont session.Continuation, methods []string, selectURL string) Outcome {
	return Outcome{
		Variant:      MethodListAvailable,
		Continuation: &cont,
		Methods:      cloneStrings(methods),
		SelectURL:    selectURL,
		Availability: ListOnly,
	}
}

// Challenge builds a ChallengeError outcome that keeps cont for retry.
func Challenge(kind Kind, cont session.Continuation) Outcome {
	return Outcome{Variant: ChallengeError, Kind: kind, Continuation: &cont}
}

// Fatal builds a FatalError outcome.
func Fatal(kind Kind) Outcome {
	return Outcome{Variant: FatalError, Kind: kind}
}

// WithDiagnostic returns o carrying artifact id.
func (o Outcome) WithDiagnostic(id string) Outcome {
	o.Diagnostic = id
	return o
}

// WithMethods returns o carrying a method list and its selection URL.
func (o Outcome) WithMethods(methods []string, selectURL string) Outcome {
	o.Methods = cloneStrings(methods)
	o.SelectURL = selectURL
	return o
}

// WithDefaultMethod returns o carrying m.
func (o Outcome) WithDefaultMethod(m method.Method) Outcome {
	o.DefaultMethod = m
	return o
}

// Failed reports whether o is a ChallengeError or FatalError.
func (o Outcome) Failed() bool {
	return o.Variant == ChallengeError || o.Variant == FatalError
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
