// Package transporttest provides a scripted transport for exercising sign-in
// flows without a network.
package transporttest

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/MrEthical07/goSignin/transport"
)

// ErrUnscripted is returned when a call has no matching step left.
var ErrUnscripted = errors.New("transporttest: unscripted call")

// Call records one request made through the script.
type Call struct {
	Verb    string
	URL     string
	Form    map[string]string
	Headers map[string]string
	Body    any
}

// Step is one scripted reply. Verb and URL, when set, must match the call.
type Step struct {
	Verb string
	URL  string
	// Response is returned as-is; CookieCount is overwritten by the script's
	// running cookie total when Cookies is non-zero.
	Response transport.Response
	// Cookies is the running cookie total after this step.
	Cookies int
	Err     error
}

// Script replays steps in order and counts calls. It is safe for one flow at a
// time; the mutex only guards against accidental sharing.
type Script struct {
	mu      sync.Mutex
	steps   []Step
	calls   []Call
	clients int
	states  []transport.State
	cookies int
}

// New returns a Script over steps.
func New(steps ...Step) *Script {
	return &Script{steps: steps}
}

// NewClient implements transport.Factory.
func (s *Script) NewClient(state transport.State) (transport.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients++
	s.states = append(s.states, state.Clone())
	if s.cookies < state.Len() {
		s.cookies = state.Len()
	}
	return &client{script: s}, nil
}

// Calls returns every recorded call.
func (s *Script) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Count returns the number of calls made with verb ("" counts all).
func (s *Script) Count(verb string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if verb == "" {
		return len(s.calls)
	}
	n := 0
	for _, c := range s.calls {
		if c.Verb == verb {
			n++
		}
	}
	return n
}

// Clients returns how many clients the factory built.
func (s *Script) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// SeedStates returns the states clients were built from.
func (s *Script) SeedStates() []transport.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]transport.State, len(s.states))
	copy(out, s.states)
	return out
}

// Remaining returns the number of unused steps.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}

func (s *Script) next(call Call) (*transport.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if len(s.steps) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrUnscripted, call.Verb, call.URL)
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if (step.Verb != "" && step.Verb != call.Verb) || (step.URL != "" && step.URL != call.URL) {
		return nil, fmt.Errorf("%w: got %s %s, want %s %s", ErrUnscripted, call.Verb, call.URL, step.Verb, step.URL)
	}
	if step.Err != nil {
		return nil, step.Err
	}
	if step.Cookies > 0 {
		s.cookies = step.Cookies
	}
	resp := step.Response
	resp.CookieCount = s.cookies
	if resp.URL == "" {
		resp.URL = call.URL
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = 200
	}
	return &resp, nil
}

// State returns a synthetic state with one cookie per counted cookie.
func (s *Script) state() transport.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := transport.State{}
	for i := 0; i < s.cookies; i++ {
		out.Cookies = append(out.Cookies, transport.Cookie{Name: fmt.Sprintf("C%d", i), Value: "v", Domain: "accounts.google.com", Path: "/"})
	}
	return out
}

type client struct {
	script *Script
}

func (c *client) Get(_ context.Context, url string) (*transport.Response, error) {
	return c.script.next(Call{Verb: "GET", URL: url})
}

func (c *client) Post(_ context.Context, url string, form map[string]string) (*transport.Response, error) {
	return c.script.next(Call{Verb: "POST", URL: url, Form: maps.Clone(form)})
}

func (c *client) PostJSON(_ context.Context, url string, headers map[string]string, body any) (*transport.Response, error) {
	return c.script.next(Call{Verb: "POSTJSON", URL: url, Headers: maps.Clone(headers), Body: body})
}

func (c *client) State() transport.State {
	return c.script.state()
}
