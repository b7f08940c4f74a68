package api

import (
	"net/http"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/outcome"
)

// StatusResendAvailable reports that the SMS page offers a resend. No
// registered status fits.
const StatusResendAvailable = 506

// LoginStatus maps a BeginLogin outcome to an HTTP status.
//
//	Authenticated              200
//	TfaRequired, both found    303
//	TfaRequired, default only  502
//	method list only           503
//	fatal                      see fatalStatus
func LoginStatus(out goSignin.Outcome) int {
	switch out.Variant {
	case outcome.Authenticated:
		return http.StatusOK
	case outcome.TfaRequired:
		switch out.Availability {
		case outcome.Both:
			return http.StatusSeeOther
		case outcome.ListOnly:
			return http.StatusServiceUnavailable
		default:
			return http.StatusBadGateway
		}
	case outcome.MethodListAvailable:
		return http.StatusServiceUnavailable
	default:
		return kindStatus(out.Kind)
	}
}

// ChallengeStatus maps a SubmitChallenge outcome to an HTTP status. Failures
// use the kind table; MethodFallbackList is 503 and MethodFallbackDefault
// 502 so clients can reuse the login handling.
func ChallengeStatus(out goSignin.Outcome) int {
	if out.Variant == outcome.Authenticated {
		return http.StatusOK
	}
	return kindStatus(out.Kind)
}

// StepStatus maps ChangeMethod and ResendCode outcomes: a new pending
// challenge is 200, failures use the kind table.
func StepStatus(out goSignin.Outcome) int {
	switch out.Variant {
	case outcome.Authenticated, outcome.TfaRequired, outcome.MethodListAvailable:
		return http.StatusOK
	default:
		return kindStatus(out.Kind)
	}
}

func kindStatus(kind outcome.Kind) int {
	switch kind {
	case outcome.ConnectionError:
		return http.StatusGatewayTimeout
	case outcome.InvalidCredentials:
		return http.StatusUnauthorized
	case outcome.CaptchaRequired, outcome.RateLimited:
		return http.StatusTooManyRequests
	case outcome.WrongCode, outcome.EmptyCode:
		return http.StatusNotAcceptable
	case outcome.PromptDenied:
		return http.StatusPreconditionFailed
	case outcome.TimedOut:
		return http.StatusRequestTimeout
	case outcome.InvalidMethod:
		return http.StatusBadRequest
	case outcome.MethodFallbackList:
		return http.StatusServiceUnavailable
	case outcome.MethodFallbackDefault:
		return http.StatusBadGateway
	case outcome.ResendAvailable:
		return StatusResendAvailable
	default:
		return http.StatusInternalServerError
	}
}

func kindTitle(kind outcome.Kind) string {
	switch kind {
	case outcome.ConnectionError:
		return titleConnectionFailed
	case outcome.InvalidCredentials:
		return titleInvalidCreds
	case outcome.RateLimited:
		return titleTooManyAttempts
	case outcome.InvalidMethod:
		return titleInvalidMethod
	case outcome.ParsingError:
		return titleParsingError
	default:
		return ""
	}
}
