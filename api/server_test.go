package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
	"github.com/stretchr/testify/require"
)

const testToken = "s3cret"

// stubEngine seals continuations as "c:<PendingURL>" and states as "s".
type stubEngine struct {
	out goSignin.Outcome

	email, password string
	method          goSignin.Method
	code            string
	displayName     string
	opened          goSignin.Continuation
	calls           int
}

func (e *stubEngine) BeginLogin(_ context.Context, email, password string) goSignin.Outcome {
	e.calls++
	e.email, e.password = email, password
	return e.out
}

func (e *stubEngine) SubmitChallenge(_ context.Context, cont goSignin.Continuation, m goSignin.Method, code string) goSignin.Outcome {
	e.calls++
	e.opened, e.method, e.code = cont, m, code
	return e.out
}

func (e *stubEngine) ChangeMethod(_ context.Context, cont goSignin.Continuation, displayName string) goSignin.Outcome {
	e.calls++
	e.opened, e.displayName = cont, displayName
	return e.out
}

func (e *stubEngine) ResendCode(_ context.Context, cont goSignin.Continuation) goSignin.Outcome {
	e.calls++
	e.opened = cont
	return e.out
}

func (e *stubEngine) SealContinuation(cont goSignin.Continuation) (string, error) {
	return "c:" + cont.PendingURL, nil
}

func (e *stubEngine) SealState(goSignin.TransportState) (string, error) {
	return "s", nil
}

func (e *stubEngine) OpenContinuation(blob string) (goSignin.Continuation, error) {
	url, ok := strings.CutPrefix(blob, "c:")
	if !ok {
		return goSignin.Continuation{}, goSignin.ErrContinuationInvalid
	}
	return goSignin.Continuation{PendingURL: url}, nil
}

func newTestServer(t *testing.T, eng *stubEngine) http.Handler {
	t.Helper()
	srv, err := NewServer(eng, Config{Token: testToken, Hostname: "node-1"}, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func post(t *testing.T, h http.Handler, path string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, &buf))

	var resp response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestNewServerRequiresToken(t *testing.T) {
	_, err := NewServer(&stubEngine{}, Config{}, nil)
	require.ErrorIs(t, err, ErrTokenNotConfigured)

	_, err = NewServer(nil, Config{Token: "x"}, nil)
	require.ErrorIs(t, err, ErrNilEngine)
}

func TestTokenChecks(t *testing.T) {
	eng := &stubEngine{out: outcome.Success(transport.State{})}
	h := newTestServer(t, eng)

	tests := []struct {
		name  string
		body  any
		title string
	}{
		{"invalid json", "{not json", titleEmptyPayload},
		{"missing token", map[string]string{"email": "a@b.co", "password": "p"}, titleTokenRequired},
		{"wrong token", map[string]string{"token": "nope", "email": "a@b.co", "password": "p"}, titleInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, h, "/login", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tt.title, resp.Error)
		})
	}
	require.Zero(t, eng.calls, "engine must not be called for rejected requests")
}

func TestLoginStatusMapping(t *testing.T) {
	cont := session.Continuation{PendingURL: "pending"}
	tests := []struct {
		name   string
		out    goSignin.Outcome
		status int
	}{
		{"authenticated", outcome.Success(transport.State{}), http.StatusOK},
		{"tfa both", outcome.Tfa(cont, outcome.TFA{DefaultMethod: method.Prompt, Methods: []string{"Google prompt"}, Availability: outcome.Both}), http.StatusSeeOther},
		{"tfa default only", outcome.Tfa(cont, outcome.TFA{DefaultMethod: method.SMS, PhoneNumber: "•• 42", Availability: outcome.DefaultOnly}), http.StatusBadGateway},
		{"list only", outcome.MethodList(cont, []string{"text message"}, "sel"), http.StatusServiceUnavailable},
		{"connection", outcome.Fatal(outcome.ConnectionError), http.StatusGatewayTimeout},
		{"invalid credentials", outcome.Fatal(outcome.InvalidCredentials), http.StatusUnauthorized},
		{"captcha", outcome.Fatal(outcome.CaptchaRequired), http.StatusTooManyRequests},
		{"rate limited", outcome.Fatal(outcome.RateLimited), http.StatusTooManyRequests},
		{"parsing", outcome.Fatal(outcome.ParsingError).WithDiagnostic("login-1.html"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &stubEngine{out: tt.out}
			rec, _ := post(t, newTestServer(t, eng), "/login", map[string]string{
				"token": testToken, "email": "alice@example.com", "password": "pw",
			})
			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, "alice@example.com", eng.email)
		})
	}
}

func TestLoginResponseBodies(t *testing.T) {
	cont := session.Continuation{PendingURL: "pending"}

	eng := &stubEngine{out: outcome.Tfa(cont, outcome.TFA{
		DefaultMethod: method.SMS,
		Methods:       []string{"text message", "backup code"},
		PhoneNumber:   "•• 42",
		Availability:  outcome.Both,
	})}
	_, resp := post(t, newTestServer(t, eng), "/login", map[string]string{"token": testToken, "email": "a@b.co", "password": "p"})
	require.Equal(t, "c:pending", resp.Session)
	require.Equal(t, method.SMS, resp.DefaultMethod)
	require.Equal(t, []string{"text message", "backup code"}, resp.Methods)
	require.Equal(t, "•• 42", resp.Number)

	eng = &stubEngine{out: outcome.Success(transport.State{})}
	_, resp = post(t, newTestServer(t, eng), "/login", map[string]string{"token": testToken, "email": "a@b.co", "password": "p"})
	require.Equal(t, "s", resp.Session)
	require.Empty(t, resp.Error)

	eng = &stubEngine{out: outcome.Fatal(outcome.ParsingError).WithDiagnostic("login-1.html")}
	_, resp = post(t, newTestServer(t, eng), "/login", map[string]string{"token": testToken, "email": "a@b.co", "password": "p"})
	require.Equal(t, "login-1.html", resp.FileName)
	require.Equal(t, "node-1", resp.Hostname)
	require.Equal(t, titleParsingError, resp.Error)
	require.Empty(t, resp.Session)
}

func TestLoginIncompleteCredentials(t *testing.T) {
	eng := &stubEngine{}
	rec, resp := post(t, newTestServer(t, eng), "/login", map[string]string{"token": testToken, "email": "a@b.co"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, titleIncomplete, resp.Error)
	require.Zero(t, eng.calls)
}

func TestStepTwoStatusMapping(t *testing.T) {
	cont := session.Continuation{PendingURL: "retry"}
	tests := []struct {
		name   string
		out    goSignin.Outcome
		status int
	}{
		{"success", outcome.Success(transport.State{}), http.StatusOK},
		{"wrong code", outcome.Challenge(outcome.WrongCode, cont), http.StatusNotAcceptable},
		{"empty code", outcome.Challenge(outcome.EmptyCode, cont), http.StatusNotAcceptable},
		{"prompt denied", outcome.Challenge(outcome.PromptDenied, cont), http.StatusPreconditionFailed},
		{"timed out", outcome.Challenge(outcome.TimedOut, cont), http.StatusRequestTimeout},
		{"invalid method", outcome.Challenge(outcome.InvalidMethod, cont), http.StatusBadRequest},
		{"fallback list", outcome.Challenge(outcome.MethodFallbackList, cont).WithMethods([]string{"a"}, "sel"), http.StatusServiceUnavailable},
		{"fallback default", outcome.Challenge(outcome.MethodFallbackDefault, cont).WithDefaultMethod(method.Authenticator), http.StatusBadGateway},
		{"resend available", outcome.Challenge(outcome.ResendAvailable, cont), StatusResendAvailable},
		{"parsing", outcome.Challenge(outcome.ParsingError, cont), http.StatusInternalServerError},
		{"connection", outcome.Challenge(outcome.ConnectionError, cont), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &stubEngine{out: tt.out}
			rec, resp := post(t, newTestServer(t, eng), "/step_two_login", map[string]any{
				"token": testToken, "session": "c:pending", "method": 2, "otp": "123456",
			})
			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, "pending", eng.opened.PendingURL)
			require.Equal(t, method.Authenticator, eng.method)
			require.Equal(t, "123456", eng.code)
			if tt.out.Continuation != nil {
				require.Equal(t, "c:retry", resp.Session)
			}
			if tt.out.Kind == outcome.MethodFallbackDefault {
				require.Equal(t, method.Authenticator, resp.DefaultMethod)
			}
		})
	}
}

func TestInvalidSessionRejected(t *testing.T) {
	for _, path := range []string{"/step_two_login", "/change_method", "/resend_code"} {
		eng := &stubEngine{}
		rec, resp := post(t, newTestServer(t, eng), path, map[string]any{"token": testToken, "session": "garbage"})
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		require.Equal(t, titleInvalidSession, resp.Error, path)
		require.Zero(t, eng.calls, path)
	}
}

func TestChangeMethod(t *testing.T) {
	next := session.Continuation{PendingURL: "sms"}
	eng := &stubEngine{out: outcome.Tfa(next, outcome.TFA{DefaultMethod: method.SMS, PhoneNumber: "•• 99", Availability: outcome.DefaultOnly})}

	rec, resp := post(t, newTestServer(t, eng), "/change_method", map[string]string{
		"token": testToken, "session": "c:list", "method": "text message",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text message", eng.displayName)
	require.Equal(t, method.SMS, resp.Method)
	require.Equal(t, "•• 99", resp.Number)
	require.Equal(t, "c:sms", resp.Session)

	eng = &stubEngine{out: outcome.Challenge(outcome.InvalidMethod, session.Continuation{PendingURL: "list"})}
	rec, resp = post(t, newTestServer(t, eng), "/change_method", map[string]string{
		"token": testToken, "session": "c:list", "method": "carrier pigeon",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, titleInvalidMethod, resp.Error)
	require.Zero(t, resp.Method)
}

func TestResendCode(t *testing.T) {
	next := session.Continuation{PendingURL: "sms2"}
	eng := &stubEngine{out: outcome.Tfa(next, outcome.TFA{DefaultMethod: method.SMS, Availability: outcome.DefaultOnly})}

	rec, resp := post(t, newTestServer(t, eng), "/resend_code", map[string]string{"token": testToken, "session": "c:sms"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "sms", eng.opened.PendingURL)
	require.Equal(t, "c:sms2", resp.Session)

	eng = &stubEngine{out: outcome.Challenge(outcome.ConnectionError, session.Continuation{PendingURL: "sms"})}
	rec, _ = post(t, newTestServer(t, eng), "/resend_code", map[string]string{"token": testToken, "session": "c:sms"})
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

type failingSealEngine struct{ stubEngine }

func (failingSealEngine) SealState(goSignin.TransportState) (string, error) {
	return "", errors.New("no key")
}

func TestSealFailureIs500(t *testing.T) {
	eng := &failingSealEngine{stubEngine{out: outcome.Success(transport.State{})}}
	srv, err := NewServer(eng, Config{Token: testToken}, nil)
	require.NoError(t, err)

	rec, resp := post(t, srv.Handler(), "/login", map[string]string{"token": testToken, "email": "a@b.co", "password": "p"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, titleInternal, resp.Error)
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestServer(t, &stubEngine{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
