package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
)

// Config names the endpoints and form fields the submitters use.
type Config struct {
	// AwaitURL is the prompt confirmation endpoint; "%s" is replaced by the
	// url-escaped prompt key.
	AwaitURL string

	CodeField       string
	SendMethodField string

	PromptTokenField  string
	PromptActionField string
	PromptActionValue string
	PromptSubAction   string

	// PromptPendingCode is the error envelope code for "no answer yet". Any other
	// code is a rejection.
	PromptPendingCode int
}

// DefaultConfig returns the Google values.
func DefaultConfig() Config {
	return Config{
		AwaitURL:          "https://content.googleapis.com/cryptauth/v1/authzen/awaittx?alt=json&key=%s",
		CodeField:         "Pin",
		SendMethodField:   "SendMethod",
		PromptTokenField:  "token",
		PromptActionField: "action",
		PromptActionValue: "VERIFY",
		PromptSubAction:   "subAction",
		PromptPendingCode: 500,
	}
}

// Request is one challenge submission.
type Request struct {
	Method      method.Method
	PendingURL  string
	Payload     map[string]string
	QueryParams *session.QueryParams
	Code        string
}

// Dispatcher routes a Request to the submitter for its method.
type Dispatcher struct {
	cfg Config
}

// New returns a Dispatcher.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// ChallengeURL strips the query string from a pending URL.
func ChallengeURL(pending string) string {
	if i := strings.IndexByte(pending, '?'); i >= 0 {
		return pending[:i]
	}
	return pending
}

// Submit runs the submitter for req.Method on client.
func (d *Dispatcher) Submit(ctx context.Context, client transport.Client, req Request) (*transport.Response, error) {
	target := ChallengeURL(req.PendingURL)
	payload := maps.Clone(req.Payload)
	if payload == nil {
		payload = map[string]string{}
	}

	switch req.Method {
	case method.Prompt:
		return d.prompt(ctx, client, target, payload, req.QueryParams)
	case method.Authenticator, method.BackupCode:
		payload[d.cfg.CodeField] = req.Code
	case method.SMS:
		payload[d.cfg.CodeField] = req.Code
		delete(payload, d.cfg.SendMethodField)
	default:
		return nil, ErrInvalidMethod
	}
	return post(ctx, client, target, payload)
}

type awaitReply struct {
	TxToken string `json:"txToken"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (d *Dispatcher) prompt(ctx context.Context, client transport.Client, target string, payload map[string]string, qp *session.QueryParams) (*transport.Response, error) {
	if qp == nil || qp.Key == "" || qp.TxID == "" {
		return nil, ErrMissingPromptParams
	}

	headers := map[string]string{
		"Referer":      target,
		"Content-Type": "application/json",
	}
	awaitURL := fmt.Sprintf(d.cfg.AwaitURL, url.QueryEscape(qp.Key))
	resp, err := client.PostJSON(ctx, awaitURL, headers, map[string]string{"txId": qp.TxID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	var reply awaitReply
	if err := json.Unmarshal([]byte(resp.Body), &reply); err != nil {
		return resp, fmt.Errorf("%w: %v", ErrPromptRejected, err)
	}
	if reply.Error != nil {
		if reply.Error.Code == d.cfg.PromptPendingCode {
			return resp, ErrPromptTimeout
		}
		return resp, fmt.Errorf("%w: error code %d", ErrPromptRejected, reply.Error.Code)
	}
	if reply.TxToken == "" {
		return resp, fmt.Errorf("%w: missing txToken", ErrPromptRejected)
	}

	payload[d.cfg.PromptTokenField] = reply.TxToken
	payload[d.cfg.PromptActionField] = d.cfg.PromptActionValue
	delete(payload, d.cfg.PromptSubAction)

	return post(ctx, client, target, payload)
}

func post(ctx context.Context, client transport.Client, target string, payload map[string]string) (*transport.Response, error) {
	resp, err := client.Post(ctx, target, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return resp, nil
}
