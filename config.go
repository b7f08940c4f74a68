package goSignin

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/MrEthical07/goSignin/extract"
)

// Config is the complete engine configuration. Obtain defaults with
// [DefaultConfig] and override sections as needed before passing it to
// [Builder.WithConfig].
type Config struct {
	Endpoints   EndpointsConfig
	Fields      FieldsConfig
	Flow        FlowConfig
	Session     SessionConfig
	Transport   TransportConfig
	Diagnostics DiagnosticsConfig
	RateLimit   RateLimitConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
ENDPOINTS CONFIG
====================================
*/

// EndpointsConfig lists the remote locations of the sign-in conversation.
type EndpointsConfig struct {
	LoginURL    string
	AuthURL     string
	ContinueURL string
	SkipURL     string
	// ChallengeBaseURL is joined with "<tag>/<challengeId>" when a method is selected.
	ChallengeBaseURL string
	// PromptAwaitURL carries one "%s" for the url-escaped prompt key.
	PromptAwaitURL string
}

/*
====================================
FIELDS CONFIG
====================================
*/

// FieldsConfig names the form fields the engine fills in.
type FieldsConfig struct {
	Email       string
	Password    string
	Continue    string
	ChallengeID string
	Code        string
	SendMethod  string
}

/*
====================================
FLOW CONFIG
====================================
*/

// FlowConfig tunes classification.
type FlowConfig struct {
	// SuccessCookieThreshold is the cookie count at or above which a response is
	// treated as an authenticated session.
	SuccessCookieThreshold int
	Markers                extract.Markers
	Selectors              extract.Selectors
	// EmailPattern overrides the syntactic email check. Empty keeps the default.
	EmailPattern string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls how continuations are sealed for the caller.
type SessionConfig struct {
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	KeyID         string
	Leeway        time.Duration
}

/*
====================================
TRANSPORT CONFIG
====================================
*/

// TransportConfig tunes the default net/http transport.
type TransportConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

/*
====================================
DIAGNOSTICS CONFIG
====================================
*/

// DiagnosticsConfig controls the artifact recorder used for unrecognized pages.
type DiagnosticsConfig struct {
	Enabled bool
	// StorageURL is any afs URL (file:///var/log/gosignin, mem://localhost/diag, s3://...).
	// When empty and a Redis client is configured, artifacts go to Redis instead.
	StorageURL   string
	RedisPrefix  string
	RedisTTL     time.Duration
	BufferSize   int
	// DropIfFull must be true while Enabled.
	DropIfFull   bool
	WriteTimeout time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig bounds failed sign-in attempts. Requires Redis.
type RateLimitConfig struct {
	Enabled          bool
	RedisPrefix      string
	EnableIPThrottle bool
	MaxLoginAttempts int
	Window           time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize   int
	DropIfFull bool
}

// MetricsConfig toggles in-process counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration for the Google developer console
// sign-in. Session.PrivateKey is left empty and must be supplied.
func DefaultConfig() Config {
	return Config{
		Endpoints: EndpointsConfig{
			LoginURL:         "https://accounts.google.com/ServiceLogin?service=androiddeveloper",
			AuthURL:          "https://accounts.google.com/ServiceLoginAuth?service=androiddeveloper",
			ContinueURL:      "https://play.google.com/apps/publish",
			SkipURL:          "https://accounts.google.com/signin/challenge/skip",
			ChallengeBaseURL: "https://accounts.google.com/signin/challenge/",
			PromptAwaitURL:   "https://content.googleapis.com/cryptauth/v1/authzen/awaittx?alt=json&key=%s",
		},
		Fields: FieldsConfig{
			Email:       "Email",
			Password:    "Passwd",
			Continue:    "continue",
			ChallengeID: "challengeId",
			Code:        "Pin",
			SendMethod:  "SendMethod",
		},
		Flow: FlowConfig{
			SuccessCookieThreshold: 7,
			Markers:                extract.DefaultMarkers(),
			Selectors:              extract.DefaultSelectors(),
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			SigningMethod: "hs256",
			Issuer:        "gosignin",
		},
		Transport: TransportConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			MaxBodyBytes: 4 << 20,
		},
		Diagnostics: DiagnosticsConfig{
			Enabled:      false,
			RedisPrefix:  "gs:diag",
			RedisTTL:     7 * 24 * time.Hour,
			BufferSize:   64,
			DropIfFull:   true,
			WriteTimeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:          false,
			RedisPrefix:      "gs",
			MaxLoginAttempts: 5,
			Window:           15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.PrivateKey = cloneBytes(cfg.Session.PrivateKey)
	out.Session.PublicKey = cloneBytes(cfg.Session.PublicKey)
	out.Flow.Markers = cfg.Flow.Markers.Clone()
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	// Endpoints
	if !absoluteURL(c.Endpoints.LoginURL) {
		return errors.New("Endpoints LoginURL must be an absolute http(s) URL")
	}
	if !absoluteURL(c.Endpoints.AuthURL) {
		return errors.New("Endpoints AuthURL must be an absolute http(s) URL")
	}
	if !absoluteURL(c.Endpoints.SkipURL) {
		return errors.New("Endpoints SkipURL must be an absolute http(s) URL")
	}
	if !absoluteURL(c.Endpoints.ChallengeBaseURL) {
		return errors.New("Endpoints ChallengeBaseURL must be an absolute http(s) URL")
	}
	if !strings.HasSuffix(c.Endpoints.ChallengeBaseURL, "/") {
		return errors.New("Endpoints ChallengeBaseURL must end with '/'")
	}
	if strings.Count(c.Endpoints.PromptAwaitURL, "%s") != 1 {
		return errors.New("Endpoints PromptAwaitURL must contain exactly one %s")
	}

	// Fields
	if c.Fields.Email == "" || c.Fields.Password == "" || c.Fields.Continue == "" {
		return errors.New("Fields Email, Password and Continue must be set")
	}
	if c.Fields.ChallengeID == "" || c.Fields.Code == "" || c.Fields.SendMethod == "" {
		return errors.New("Fields ChallengeID, Code and SendMethod must be set")
	}

	// Flow
	if c.Flow.SuccessCookieThreshold <= 0 {
		return errors.New("Flow SuccessCookieThreshold must be > 0")
	}
	if c.Flow.Markers.ChallengePath == "" {
		return errors.New("Flow Markers ChallengePath must be set")
	}
	if c.Flow.Selectors.PickerList == "" || c.Flow.Selectors.MethodLabel == "" {
		return errors.New("Flow Selectors PickerList and MethodLabel must be set")
	}
	if c.Flow.EmailPattern != "" {
		if _, err := regexp.Compile(c.Flow.EmailPattern); err != nil {
			return errors.New("Flow EmailPattern does not compile")
		}
	}

	// Session
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.Session.Leeway < 0 || c.Session.Leeway > 2*time.Minute {
		return errors.New("Session Leeway must be between 0 and 2m")
	}
	switch c.Session.SigningMethod {
	case "hs256":
		if len(c.Session.PrivateKey) < 32 {
			return errors.New("hs256 requires a PrivateKey of at least 32 bytes")
		}
	case "ed25519":
		if len(c.Session.PrivateKey) == 0 {
			return errors.New("ed25519 requires PrivateKey")
		}
		if len(c.Session.PublicKey) == 0 {
			return errors.New("ed25519 requires PublicKey")
		}
	default:
		return errors.New("unsupported Session signing method")
	}

	// Transport
	if c.Transport.Timeout <= 0 {
		return errors.New("Transport Timeout must be > 0")
	}
	if c.Transport.MaxBodyBytes < 0 {
		return errors.New("Transport MaxBodyBytes must be >= 0")
	}

	// Diagnostics
	if c.Diagnostics.Enabled {
		if c.Diagnostics.BufferSize <= 0 {
			return errors.New("Diagnostics BufferSize must be > 0")
		}
		if c.Diagnostics.RedisTTL < 0 {
			return errors.New("Diagnostics RedisTTL must be >= 0")
		}
		if !c.Diagnostics.DropIfFull {
			return errors.New("Diagnostics DropIfFull must be true")
		}
	}

	// Rate limit
	if c.RateLimit.Enabled {
		if c.RateLimit.MaxLoginAttempts <= 0 {
			return errors.New("RateLimit MaxLoginAttempts must be > 0")
		}
		if c.RateLimit.Window <= 0 {
			return errors.New("RateLimit Window must be > 0")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
