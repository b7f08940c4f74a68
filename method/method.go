package method

import (
	"net/url"
	"strconv"
	"strings"
)

// Method identifies one two-factor mechanism.
type Method int

const (
	// Prompt is a push confirmation on a signed-in phone.
	Prompt Method = 1
	// Authenticator is a time-based code from an authenticator app.
	Authenticator Method = 2
	// SMS is a one-time code delivered by text message.
	SMS Method = 3
	// BackupCode is a single-use printed backup code.
	BackupCode Method = 4
)

// Info is one catalog row.
type Info struct {
	Method      Method
	DisplayName string
	Tag         string
}

var catalog = [...]Info{
	{Method: Prompt, DisplayName: "Google prompt", Tag: "az"},
	{Method: Authenticator, DisplayName: "Google Authenticator", Tag: "totp"},
	{Method: SMS, DisplayName: "text message", Tag: "ipp"},
	{Method: BackupCode, DisplayName: "backup code", Tag: "bc"},
}

// ChallengeSegment is the URL path segment that precedes the protocol tag.
const ChallengeSegment = "challenge"

// Valid reports whether m is one of the four catalog methods.
func (m Method) Valid() bool {
	return m >= Prompt && m <= BackupCode
}

// DisplayName returns the human-readable name used on the method-selection page.
func (m Method) DisplayName() string {
	if !m.Valid() {
		return ""
	}
	return catalog[m-1].DisplayName
}

// Tag returns the protocol tag used to build challenge URLs.
func (m Method) Tag() string {
	if !m.Valid() {
		return ""
	}
	return catalog[m-1].Tag
}

func (m Method) String() string {
	if !m.Valid() {
		return "method(" + strconv.Itoa(int(m)) + ")"
	}
	return catalog[m-1].DisplayName
}

// All returns the catalog in wire order.
func All() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup returns the catalog row for m.
func Lookup(m Method) (Info, bool) {
	if !m.Valid() {
		return Info{}, false
	}
	return catalog[m-1], true
}

// FromDisplayName resolves the first catalog method whose display name occurs in s.
// The remote page decorates names ("Get a verification code at ••• text message"),
// so containment rather than equality is used.
func FromDisplayName(s string) (Method, bool) {
	for _, info := range catalog {
		if strings.Contains(s, info.DisplayName) {
			return info.Method, true
		}
	}
	return 0, false
}

// FromTag resolves a protocol tag.
func FromTag(tag string) (Method, bool) {
	for _, info := range catalog {
		if info.Tag == tag {
			return info.Method, true
		}
	}
	return 0, false
}

// TagFromURL returns the protocol-tag path segment that follows ChallengeSegment,
// e.g. "totp" for https://host/signin/challenge/totp/2?x=y.
func TagFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == ChallengeSegment && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

// FromURL resolves the method whose protocol tag appears in a challenge URL.
func FromURL(raw string) (Method, bool) {
	tag, ok := TagFromURL(raw)
	if !ok {
		return 0, false
	}
	return FromTag(tag)
}
