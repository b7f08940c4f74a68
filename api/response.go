package api

import (
	"encoding/json"
	"net/http"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/method"
	"go.uber.org/zap"
)

type response struct {
	Session       string        `json:"session,omitempty"`
	DefaultMethod method.Method `json:"default_method,omitempty"`
	Methods       []string      `json:"methods,omitempty"`
	Number        string        `json:"number,omitempty"`
	Method        method.Method `json:"method,omitempty"`
	FileName      string        `json:"file_name,omitempty"`
	Hostname      string        `json:"hostname,omitempty"`
	Error         string        `json:"error,omitempty"`
	Description   string        `json:"description,omitempty"`
}

// sealInto seals whichever state out carries into resp.Session.
func (s *Server) sealInto(resp *response, out goSignin.Outcome) error {
	var (
		blob string
		err  error
	)
	switch {
	case out.TransportState != nil:
		blob, err = s.engine.SealState(*out.TransportState)
	case out.Continuation != nil:
		blob, err = s.engine.SealContinuation(*out.Continuation)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	resp.Session = blob
	return nil
}

// writeOutcome seals the outcome's session, fills the common fields and
// writes resp with status.
func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, op string, status int, out goSignin.Outcome, resp response) {
	if err := s.sealInto(&resp, out); err != nil {
		s.logger.Error("seal session failed", zap.String("op", op), zap.Error(err), requestIDField(r))
		writeError(w, http.StatusInternalServerError, titleInternal, "session could not be sealed")
		return
	}

	if len(resp.Methods) == 0 && len(out.Methods) > 0 {
		resp.Methods = out.Methods
	}
	if resp.Number == "" {
		resp.Number = out.PhoneNumber
	}
	if out.Diagnostic != "" {
		resp.FileName = out.Diagnostic
		resp.Hostname = s.hostname
	}
	if out.Failed() && resp.Error == "" {
		resp.Error = kindTitle(out.Kind)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("variant", out.Variant.String()),
		requestIDField(r),
	}
	if out.Failed() {
		fields = append(fields, zap.String("kind", out.Kind.String()))
	}
	if out.Diagnostic != "" {
		s.logger.Warn("unrecognized upstream page", append(fields, zap.String("file_name", out.Diagnostic))...)
	} else {
		s.logger.Info("request served", fields...)
	}

	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, title, description string) {
	writeJSON(w, status, response{Error: title, Description: description})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestIDField(r *http.Request) zap.Field {
	return zap.String("request_id", goSignin.RequestIDFromContext(r.Context()))
}
