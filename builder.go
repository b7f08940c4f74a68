package goSignin

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/MrEthical07/goSignin/diag"
	"github.com/MrEthical07/goSignin/extract"
	internalaudit "github.com/MrEthical07/goSignin/internal/audit"
	"github.com/MrEthical07/goSignin/internal/classify"
	"github.com/MrEthical07/goSignin/internal/dispatch"
	"github.com/MrEthical07/goSignin/internal/flows"
	"github.com/MrEthical07/goSignin/internal/rate"
	"github.com/MrEthical07/goSignin/jwt"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder collects collaborators and configuration for an [Engine].
// A Builder can be built once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	transport   transport.Factory
	extractor   extract.Extractor
	diagnostics diag.Sink
	logger      *zap.Logger
	auditSink   AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client used by the rate limiter and, when no
// StorageURL is configured, by the diagnostic writer.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTransportFactory replaces the default net/http transport.
func (b *Builder) WithTransportFactory(f transport.Factory) *Builder {
	b.transport = f
	return b
}

// WithExtractor replaces the default goquery extractor.
func (b *Builder) WithExtractor(x extract.Extractor) *Builder {
	b.extractor = x
	return b
}

// WithDiagnostics injects a ready diagnostic sink. The engine does not close it.
func (b *Builder) WithDiagnostics(sink diag.Sink) *Builder {
	b.diagnostics = sink
	return b
}

func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil && cfg.RateLimit.Enabled {
		return nil, fmt.Errorf("%w: RateLimit is enabled", ErrRedisRequired)
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// -------- CONTINUATION CODEC --------
	jm, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.Session.TTL,
		SigningMethod: jwt.SigningMethod(cfg.Session.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Session.PrivateKey),
		PublicKey:     cloneBytes(cfg.Session.PublicKey),
		Issuer:        cfg.Session.Issuer,
		Audience:      cfg.Session.Audience,
		Leeway:        cfg.Session.Leeway,
		KeyID:         cfg.Session.KeyID,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cloneConfig(cfg),
		jwtManager: jm,
		codec:      session.NewCodec(jm),
		logger:     logger.Named("engine"),
		metrics:    NewMetrics(cfg.Metrics),
	}

	// -------- DIAGNOSTICS --------
	sink := b.diagnostics
	if sink == nil && cfg.Diagnostics.Enabled {
		writer, err := b.diagnosticWriter(cfg.Diagnostics)
		if err != nil {
			return nil, err
		}
		engine.recorder = diag.NewRecorder(diag.RecorderConfig{
			BufferSize:   cfg.Diagnostics.BufferSize,
			DropIfFull:   cfg.Diagnostics.DropIfFull,
			WriteTimeout: cfg.Diagnostics.WriteTimeout,
		}, writer, logger.Named("diag"))
		sink = engine.recorder
	}
	if sink == nil {
		sink = diag.NopSink{}
	}

	// -------- COLLABORATORS --------
	factory := b.transport
	if factory == nil {
		factory = transport.NewHTTPFactory(transport.HTTPConfig{
			Timeout:      cfg.Transport.Timeout,
			UserAgent:    cfg.Transport.UserAgent,
			MaxBodyBytes: cfg.Transport.MaxBodyBytes,
		})
	}

	extractor := b.extractor
	if extractor == nil {
		extractor = extract.NewHTML(cfg.Flow.Selectors, cfg.Flow.Markers)
	}

	emailPattern := flows.DefaultEmailPattern
	if cfg.Flow.EmailPattern != "" {
		emailPattern = regexp.MustCompile(cfg.Flow.EmailPattern)
	}

	dispatchCfg := dispatch.DefaultConfig()
	dispatchCfg.AwaitURL = cfg.Endpoints.PromptAwaitURL
	dispatchCfg.CodeField = cfg.Fields.Code
	dispatchCfg.SendMethodField = cfg.Fields.SendMethod

	engine.flows = flows.New(flows.Deps{
		Transport: factory,
		Extractor: extractor,
		Rules: classify.Rules{
			Markers:   extractor.Markers(),
			Threshold: cfg.Flow.SuccessCookieThreshold,
			LoginURL:  cfg.Endpoints.LoginURL,
		},
		Dispatcher:  dispatch.New(dispatchCfg),
		Diagnostics: countingSink{sink: sink, metrics: engine.metrics},
		Endpoints: flows.Endpoints{
			LoginURL:         cfg.Endpoints.LoginURL,
			AuthURL:          cfg.Endpoints.AuthURL,
			ContinueURL:      cfg.Endpoints.ContinueURL,
			SkipURL:          cfg.Endpoints.SkipURL,
			ChallengeBaseURL: cfg.Endpoints.ChallengeBaseURL,
		},
		Fields: flows.Fields{
			Email:       cfg.Fields.Email,
			Password:    cfg.Fields.Password,
			Continue:    cfg.Fields.Continue,
			ChallengeID: cfg.Fields.ChallengeID,
		},
		EmailPattern: emailPattern,
	})

	// -------- RATE LIMIT / AUDIT --------
	if cfg.RateLimit.Enabled {
		engine.rateLimiter = rate.New(b.redis, rate.Config{
			Prefix:           cfg.RateLimit.RedisPrefix,
			EnableIPThrottle: cfg.RateLimit.EnableIPThrottle,
			MaxLoginAttempts: cfg.RateLimit.MaxLoginAttempts,
			Window:           cfg.RateLimit.Window,
		})
	}
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return engine, nil
}

func (b *Builder) diagnosticWriter(cfg DiagnosticsConfig) (diag.Writer, error) {
	if cfg.StorageURL != "" {
		return diag.NewStorageWriter(cfg.StorageURL)
	}
	if b.redis != nil {
		return diag.NewRedisWriter(b.redis, cfg.RedisPrefix, cfg.RedisTTL)
	}
	return nil, errors.New("Diagnostics requires StorageURL or a redis client")
}
