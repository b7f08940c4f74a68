package transport

import (
	"context"
	"time"
)

// Response is the flattened view of a completed request.
type Response struct {
	StatusCode int
	// URL is the final URL after redirects.
	URL  string
	Body string
	// CookieCount is the size of the accumulated cookie set after the request.
	CookieCount int
}

// Client is the transport surface consumed by the flows.
type Client interface {
	Get(ctx context.Context, url string) (*Response, error)
	Post(ctx context.Context, url string, form map[string]string) (*Response, error)
	PostJSON(ctx context.Context, url string, headers map[string]string, body any) (*Response, error)
	State() State
}

// Factory builds a fresh Client seeded with state.
type Factory interface {
	NewClient(state State) (Client, error)
}

// FactoryFunc adapts a function to [Factory].
type FactoryFunc func(state State) (Client, error)

// NewClient calls f(state).
func (f FactoryFunc) NewClient(state State) (Client, error) {
	return f(state)
}

// Cookie is the serializable form of one stored cookie.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	// HostOnly cookies are sent to Domain only, never to its subdomains.
	HostOnly bool      `json:"host_only,omitempty"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

// State is the opaque cookie/session handle carried between steps.
type State struct {
	Cookies []Cookie `json:"cookies,omitempty"`
}

// Len returns the number of stored cookies.
func (s State) Len() int {
	return len(s.Cookies)
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s.Cookies == nil {
		return State{}
	}
	out := make([]Cookie, len(s.Cookies))
	copy(out, s.Cookies)
	return State{Cookies: out}
}
