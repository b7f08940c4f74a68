package api

import (
	"encoding/json"
	"io"
	"net/http"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
)

const (
	opLogin        = "login"
	opStepTwo      = "step_two_login"
	opChangeMethod = "change_method"
	opResendCode   = "resend_code"
)

type envelope struct {
	Token *string `json:"token"`
}

type loginRequest struct {
	envelope
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type stepTwoRequest struct {
	envelope
	Session string        `json:"session"`
	Method  method.Method `json:"method"`
	OTP     string        `json:"otp"`
}

type changeMethodRequest struct {
	envelope
	Session string `json:"session"`
	Method  string `json:"method"`
}

type resendRequest struct {
	envelope
	Session string `json:"session"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req, &req.envelope) {
		return
	}
	if req.Email == nil || req.Password == nil {
		writeError(w, http.StatusBadRequest, titleIncomplete, "email and password are required")
		return
	}

	out := s.engine.BeginLogin(r.Context(), *req.Email, *req.Password)

	var resp response
	if out.Variant == outcome.TfaRequired && out.DefaultMethod.Valid() {
		resp.DefaultMethod = out.DefaultMethod
	}
	s.writeOutcome(w, r, opLogin, LoginStatus(out), out, resp)
}

func (s *Server) handleStepTwo(w http.ResponseWriter, r *http.Request) {
	var req stepTwoRequest
	if !s.decode(w, r, &req, &req.envelope) {
		return
	}
	cont, ok := s.open(w, req.Session)
	if !ok {
		return
	}

	out := s.engine.SubmitChallenge(r.Context(), cont, req.Method, req.OTP)

	var resp response
	if out.Kind == outcome.MethodFallbackDefault && out.DefaultMethod.Valid() {
		resp.DefaultMethod = out.DefaultMethod
	}
	s.writeOutcome(w, r, opStepTwo, ChallengeStatus(out), out, resp)
}

func (s *Server) handleChangeMethod(w http.ResponseWriter, r *http.Request) {
	var req changeMethodRequest
	if !s.decode(w, r, &req, &req.envelope) {
		return
	}
	cont, ok := s.open(w, req.Session)
	if !ok {
		return
	}

	out := s.engine.ChangeMethod(r.Context(), cont, req.Method)

	var resp response
	if !out.Failed() && out.DefaultMethod.Valid() {
		resp.Method = out.DefaultMethod
	}
	s.writeOutcome(w, r, opChangeMethod, StepStatus(out), out, resp)
}

func (s *Server) handleResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if !s.decode(w, r, &req, &req.envelope) {
		return
	}
	cont, ok := s.open(w, req.Session)
	if !ok {
		return
	}

	out := s.engine.ResendCode(r.Context(), cont)

	var resp response
	if !out.Failed() && out.DefaultMethod.Valid() {
		resp.Method = out.DefaultMethod
	}
	s.writeOutcome(w, r, opResendCode, StepStatus(out), out, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads the JSON body into dst and checks the API token carried in
// env. It writes the error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, env *envelope) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, titleEmptyPayload, "request body too large")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, titleEmptyPayload, "no valid json was supplied with request")
		return false
	}
	if env.Token == nil {
		writeError(w, http.StatusBadRequest, titleTokenRequired, "send the access token along with the request")
		return false
	}
	if !s.validToken(*env.Token) {
		writeError(w, http.StatusBadRequest, titleInvalidToken, "supply a valid token")
		return false
	}
	return true
}

func (s *Server) open(w http.ResponseWriter, blob string) (goSignin.Continuation, bool) {
	cont, err := s.engine.OpenContinuation(blob)
	if err != nil {
		writeError(w, http.StatusBadRequest, titleInvalidSession, "session is missing, expired or was modified")
		return goSignin.Continuation{}, false
	}
	return cont, true
}
