package goSignin

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults with key",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "hs256 key too short",
			mutate: func(c *Config) {
				c.Session.PrivateKey = []byte("short")
			},
			wantValid: false,
		},
		{
			name: "blocking diagnostics",
			mutate: func(c *Config) {
				c.Diagnostics.Enabled = true
				c.Diagnostics.DropIfFull = false
			},
			wantValid: false,
		},
		{
			name: "unknown signing method",
			mutate: func(c *Config) {
				c.Session.SigningMethod = "rs256"
			},
			wantValid: false,
		},
		{
			name: "ed25519 without public key",
			mutate: func(c *Config) {
				c.Session.SigningMethod = "ed25519"
			},
			wantValid: false,
		},
		{
			name: "session ttl zero",
			mutate: func(c *Config) {
				c.Session.TTL = 0
			},
			wantValid: false,
		},
		{
			name: "session leeway too large",
			mutate: func(c *Config) {
				c.Session.Leeway = 3 * time.Minute
			},
			wantValid: false,
		},
		{
			name: "threshold zero",
			mutate: func(c *Config) {
				c.Flow.SuccessCookieThreshold = 0
			},
			wantValid: false,
		},
		{
			name: "threshold custom",
			mutate: func(c *Config) {
				c.Flow.SuccessCookieThreshold = 11
			},
			wantValid: true,
		},
		{
			name: "relative login url",
			mutate: func(c *Config) {
				c.Endpoints.LoginURL = "/ServiceLogin"
			},
			wantValid: false,
		},
		{
			name: "challenge base without trailing slash",
			mutate: func(c *Config) {
				c.Endpoints.ChallengeBaseURL = "https://accounts.google.com/signin/challenge"
			},
			wantValid: false,
		},
		{
			name: "await url without placeholder",
			mutate: func(c *Config) {
				c.Endpoints.PromptAwaitURL = "https://content.googleapis.com/awaittx"
			},
			wantValid: false,
		},
		{
			name: "missing code field",
			mutate: func(c *Config) {
				c.Fields.Code = ""
			},
			wantValid: false,
		},
		{
			name: "bad email pattern",
			mutate: func(c *Config) {
				c.Flow.EmailPattern = "(["
			},
			wantValid: false,
		},
		{
			name: "rate limit zero window",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Window = 0
			},
			wantValid: false,
		},
		{
			name: "audit zero buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "diagnostics zero buffer",
			mutate: func(c *Config) {
				c.Diagnostics.Enabled = true
				c.Diagnostics.BufferSize = 0
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Flow.SuccessCookieThreshold != 7 {
		t.Fatalf("expected threshold 7, got %d", cfg.Flow.SuccessCookieThreshold)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("expected 30m session TTL, got %s", cfg.Session.TTL)
	}
	if cfg.Fields.Code != "Pin" || cfg.Fields.Password != "Passwd" {
		t.Fatalf("unexpected field names: %+v", cfg.Fields)
	}
}

func TestCloneConfigIsDeep(t *testing.T) {
	cfg := testConfig()
	clone := cloneConfig(cfg)

	clone.Session.PrivateKey[0] = 'X'
	clone.Flow.Markers.WrongCode[0] = "changed"

	if cfg.Session.PrivateKey[0] == 'X' {
		t.Fatalf("private key shared with clone")
	}
	if cfg.Flow.Markers.WrongCode[0] == "changed" {
		t.Fatalf("markers shared with clone")
	}
}
