package session

import (
	"maps"

	"github.com/MrEthical07/goSignin/transport"
)

// QueryParams are the prompt polling parameters captured from a challenge page.
type QueryParams struct {
	Key  string `json:"key"`
	TxID string `json:"tx_id"`
}

// ResendInfo is the captured "resend code" form of an SMS challenge page.
type ResendInfo struct {
	URL     string            `json:"url"`
	Payload map[string]string `json:"payload"`
}

// Continuation is the client-held state of a sign-in in progress.
type Continuation struct {
	TransportState  transport.State   `json:"transport_state"`
	PendingURL      string            `json:"pending_url,omitempty"`
	PendingPayload  map[string]string `json:"pending_payload,omitempty"`
	QueryParams     *QueryParams      `json:"query_params,omitempty"`
	SelectMethodURL string            `json:"select_method_url,omitempty"`
	Resend          *ResendInfo       `json:"resend,omitempty"`
}

// Clean strips every pending-step field and returns the remaining transport state.
// Calling Clean twice yields the same result.
func (c *Continuation) Clean() transport.State {
	c.PendingURL = ""
	c.PendingPayload = nil
	c.QueryParams = nil
	c.SelectMethodURL = ""
	c.Resend = nil
	return c.TransportState
}

// Stripped returns a cleaned deep copy, leaving c untouched.
func (c Continuation) Stripped() Continuation {
	out := c.Clone()
	out.Clean()
	return out
}

// Clone returns a deep copy.
func (c Continuation) Clone() Continuation {
	out := Continuation{
		TransportState:  c.TransportState.Clone(),
		PendingURL:      c.PendingURL,
		PendingPayload:  maps.Clone(c.PendingPayload),
		SelectMethodURL: c.SelectMethodURL,
	}
	if c.QueryParams != nil {
		qp := *c.QueryParams
		out.QueryParams = &qp
	}
	if c.Resend != nil {
		out.Resend = &ResendInfo{URL: c.Resend.URL, Payload: maps.Clone(c.Resend.Payload)}
	}
	return out
}

// HasPending reports whether a challenge is waiting to be answered.
func (c Continuation) HasPending() bool {
	return c.PendingURL != ""
}
