package extract

import "strings"

// Markers are the page substrings used to classify responses.
type Markers struct {
	CredentialRejected []string
	Captcha            []string
	ChallengePath      string
	DefaultUnavailable []string
	PromptDefault      []string
	WrongCode          []string
	EmptyCode          []string
	PromptDenied       []string
	TooManyAttempts    []string
	ResendCode         []string
}

// DefaultMarkers returns the marker set for the Google sign-in pages.
func DefaultMarkers() Markers {
	return Markers{
		CredentialRejected: []string{"Google doesn't recognize that email", "Wrong password"},
		Captcha:            []string{"captcha"},
		ChallengePath:      "signin/challenge",
		DefaultUnavailable: []string{"Please try again later", "Something went wrong"},
		PromptDefault:      []string{"prompt to sign in"},
		WrongCode:          []string{"Wrong"},
		EmptyCode:          []string{"Enter a code"},
		PromptDenied:       []string{"Sign-in canceled", "you canceled it"},
		TooManyAttempts:    []string{"Unavailable because of too many failed attempts"},
		ResendCode:         []string{"Resend code"},
	}
}

// ContainsAny reports whether s contains any non-empty marker.
func ContainsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m Markers) Clone() Markers {
	out := m
	out.CredentialRejected = cloneStrings(m.CredentialRejected)
	out.Captcha = cloneStrings(m.Captcha)
	out.DefaultUnavailable = cloneStrings(m.DefaultUnavailable)
	out.PromptDefault = cloneStrings(m.PromptDefault)
	out.WrongCode = cloneStrings(m.WrongCode)
	out.EmptyCode = cloneStrings(m.EmptyCode)
	out.PromptDenied = cloneStrings(m.PromptDenied)
	out.TooManyAttempts = cloneStrings(m.TooManyAttempts)
	out.ResendCode = cloneStrings(m.ResendCode)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
