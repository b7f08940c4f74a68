package main

import (
	"errors"
	"time"

	goSignin "github.com/MrEthical07/goSignin"
)

// Options are the command line flags; every flag also reads its env var.
type Options struct {
	Addr            string        `short:"a" long:"addr" env:"GOSIGNIN_ADDR" default:"localhost:8001" description:"API listen address"`
	MetricsAddr     string        `long:"metrics-addr" env:"GOSIGNIN_METRICS_ADDR" description:"Prometheus /metrics listen address; empty disables metrics"`
	Token           string        `short:"t" long:"token" env:"GOSIGNIN_TOKEN" required:"true" description:"API access token clients must send"`
	TrustForwarded  bool          `long:"trust-forwarded" env:"GOSIGNIN_TRUST_FORWARDED" description:"take the client IP from X-Forwarded-For"`
	SessionKey      string        `long:"session-key" env:"GOSIGNIN_SESSION_KEY" description:"HS256 key sealing sessions, at least 32 bytes; random per process when empty"`
	SessionTTL      time.Duration `long:"session-ttl" env:"GOSIGNIN_SESSION_TTL" default:"30m" description:"lifetime of sealed sessions"`
	UpstreamTimeout time.Duration `long:"upstream-timeout" env:"GOSIGNIN_UPSTREAM_TIMEOUT" default:"30s" description:"timeout of each upstream request"`
	CookieThreshold int           `long:"cookie-threshold" env:"GOSIGNIN_COOKIE_THRESHOLD" default:"7" description:"cookie count that marks an authenticated session"`
	RedisAddr       string        `long:"redis-addr" env:"REDIS_ADDR" description:"redis address; an in-process miniredis is used when empty and redis is needed"`
	NoDiagnostics   bool          `long:"no-diagnostics" env:"GOSIGNIN_NO_DIAGNOSTICS" description:"do not record unrecognized upstream pages"`
	DiagURL         string        `long:"diag-url" env:"GOSIGNIN_DIAG_URL" default:"file:///tmp/gosignin/diag" description:"afs URL for diagnostic artifacts; set it empty to keep them in redis"`
	RateLimit       bool          `long:"rate-limit" env:"GOSIGNIN_RATE_LIMIT" description:"limit failed logins per email"`
	IPThrottle      bool          `long:"ip-throttle" env:"GOSIGNIN_IP_THROTTLE" description:"also limit failed logins per client IP"`
	MaxAttempts     int           `long:"max-attempts" env:"GOSIGNIN_MAX_ATTEMPTS" default:"5" description:"failed logins allowed per window"`
	Window          time.Duration `long:"window" env:"GOSIGNIN_WINDOW" default:"15m" description:"rate limit window"`
	Audit           bool          `long:"audit" env:"GOSIGNIN_AUDIT" description:"log one audit line per sign-in step"`
	Dev             bool          `long:"dev" env:"GOSIGNIN_DEV" description:"human-readable debug logging"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" default:"10s" description:"graceful shutdown budget"`
}

func (o *Options) needsRedis() bool {
	return o.RateLimit || (!o.NoDiagnostics && o.DiagURL == "")
}

// engineConfig maps the options onto the engine configuration.
func (o *Options) engineConfig(key []byte) (goSignin.Config, error) {
	if o.CookieThreshold <= 0 {
		return goSignin.Config{}, errors.New("cookie-threshold must be > 0")
	}

	cfg := goSignin.DefaultConfig()
	cfg.Flow.SuccessCookieThreshold = o.CookieThreshold
	cfg.Session.PrivateKey = key
	cfg.Session.TTL = o.SessionTTL
	cfg.Transport.Timeout = o.UpstreamTimeout

	cfg.Diagnostics.Enabled = !o.NoDiagnostics
	cfg.Diagnostics.StorageURL = o.DiagURL

	cfg.RateLimit.Enabled = o.RateLimit
	cfg.RateLimit.EnableIPThrottle = o.IPThrottle
	cfg.RateLimit.MaxLoginAttempts = o.MaxAttempts
	cfg.RateLimit.Window = o.Window

	cfg.Audit.Enabled = o.Audit

	cfg.Metrics.Enabled = o.MetricsAddr != ""
	cfg.Metrics.EnableLatencyHistograms = o.MetricsAddr != ""

	return cfg, cfg.Validate()
}
