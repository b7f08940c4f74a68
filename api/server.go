package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/middleware"
	"go.uber.org/zap"
)

// Engine is the part of [goSignin.Engine] the server drives.
type Engine interface {
	BeginLogin(ctx context.Context, email, password string) goSignin.Outcome
	SubmitChallenge(ctx context.Context, cont goSignin.Continuation, m goSignin.Method, code string) goSignin.Outcome
	ChangeMethod(ctx context.Context, cont goSignin.Continuation, displayName string) goSignin.Outcome
	ResendCode(ctx context.Context, cont goSignin.Continuation) goSignin.Outcome
	SealContinuation(cont goSignin.Continuation) (string, error)
	SealState(state goSignin.TransportState) (string, error)
	OpenContinuation(blob string) (goSignin.Continuation, error)
}

var _ Engine = (*goSignin.Engine)(nil)

// Config configures the HTTP server.
type Config struct {
	// Token is the shared API token every request body must carry.
	Token string
	// Hostname is reported next to diagnostic artifact ids. Defaults to os.Hostname.
	Hostname string
	// MaxBodyBytes caps request bodies. Zero means 64 KiB.
	MaxBodyBytes int64
	// TrustForwarded makes the client IP come from X-Forwarded-For.
	TrustForwarded bool
}

// Server exposes an Engine over HTTP.
type Server struct {
	engine   Engine
	token    []byte
	hostname string
	maxBody  int64
	trustFwd bool
	logger   *zap.Logger
}

// NewServer validates cfg and returns a Server. logger may be nil.
func NewServer(engine Engine, cfg Config, logger *zap.Logger) (*Server, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if cfg.Token == "" {
		return nil, ErrTokenNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hostname := cfg.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 10
	}

	return &Server{
		engine:   engine,
		token:    []byte(cfg.Token),
		hostname: hostname,
		maxBody:  maxBody,
		trustFwd: cfg.TrustForwarded,
		logger:   logger.Named("api"),
	}, nil
}

// Handler returns the routed handler wrapped in request-context and
// panic-recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /step_two_login", s.handleStepTwo)
	mux.HandleFunc("POST /change_method", s.handleChangeMethod)
	mux.HandleFunc("POST /resend_code", s.handleResendCode)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	h = middleware.Recover(s.logger)(h)
	h = middleware.RequestContext(s.trustFwd)(h)
	return h
}

func (s *Server) validToken(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), s.token) == 1
}
