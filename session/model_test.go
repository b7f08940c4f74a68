package session

import (
	"testing"

	"github.com/MrEthical07/goSignin/transport"
)

func sampleContinuation() Continuation {
	return Continuation{
		TransportState:  transport.State{Cookies: []transport.Cookie{{Name: "SID", Value: "a", Domain: "accounts.google.com", Path: "/"}}},
		PendingURL:      "https://accounts.google.com/signin/challenge/totp/2",
		PendingPayload:  map[string]string{"challengeId": "2", "TL": "tl"},
		QueryParams:     &QueryParams{Key: "k", TxID: "tx"},
		SelectMethodURL: "https://accounts.google.com/signin/challenge/skip",
		Resend:          &ResendInfo{URL: "https://accounts.google.com/signin/challenge/ipp/3", Payload: map[string]string{"SendMethod": "SMS"}},
	}
}

func TestCleanStripsPendingFieldsAndIsIdempotent(t *testing.T) {
	c := sampleContinuation()
	state := c.Clean()
	if state.Len() != 1 {
		t.Fatalf("expected 1 cookie, got %d", state.Len())
	}
	if c.PendingURL != "" || c.PendingPayload != nil || c.QueryParams != nil || c.SelectMethodURL != "" || c.Resend != nil {
		t.Fatalf("pending fields survived Clean: %+v", c)
	}
	again := c.Clean()
	if again.Len() != state.Len() || again.Cookies[0] != state.Cookies[0] {
		t.Fatalf("second Clean changed state")
	}
}

func TestStrippedLeavesOriginalUntouched(t *testing.T) {
	c := sampleContinuation()
	s := c.Stripped()
	if s.HasPending() {
		t.Fatal("stripped copy still has a pending challenge")
	}
	if !c.HasPending() || c.QueryParams == nil || c.Resend == nil {
		t.Fatal("Stripped mutated the receiver")
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := sampleContinuation()
	d := c.Clone()
	d.PendingPayload["challengeId"] = "9"
	d.QueryParams.TxID = "other"
	d.Resend.Payload["SendMethod"] = "VOICE"
	d.TransportState.Cookies[0].Value = "b"

	if c.PendingPayload["challengeId"] != "2" || c.QueryParams.TxID != "tx" ||
		c.Resend.Payload["SendMethod"] != "SMS" || c.TransportState.Cookies[0].Value != "a" {
		t.Fatalf("clone shares memory with original: %+v", c)
	}
}
