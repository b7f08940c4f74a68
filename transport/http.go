package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

const defaultMaxBodyBytes = 4 << 20

// HTTPConfig tunes [HTTPFactory] clients.
type HTTPConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	// Base, when set, supplies the RoundTripper (tests, proxies).
	Base http.RoundTripper
}

// HTTPFactory builds [HTTPClient] values.
type HTTPFactory struct {
	config HTTPConfig
}

// NewHTTPFactory returns a Factory backed by net/http.
func NewHTTPFactory(cfg HTTPConfig) *HTTPFactory {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &HTTPFactory{config: cfg}
}

// NewClient builds a client whose jar is seeded with state.
func (f *HTTPFactory) NewClient(state State) (Client, error) {
	jar, err := NewJar(state)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		http: &http.Client{
			Jar:       jar,
			Timeout:   f.config.Timeout,
			Transport: f.config.Base,
		},
		jar:     jar,
		agent:   f.config.UserAgent,
		maxBody: f.config.MaxBodyBytes,
	}, nil
}

// HTTPClient is a single-flow, browser-like client.
type HTTPClient struct {
	http    *http.Client
	jar     *Jar
	agent   string
	maxBody int64
}

func (c *HTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *HTTPClient) Post(ctx context.Context, url string, form map[string]string) (*Response, error) {
	values := make(neturl.Values, len(form))
	for k, v := range form {
		values.Set(k, v)
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *HTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req)
}

// State exports the current cookie set.
func (c *HTTPClient) State() State {
	return c.jar.State()
}

func (c *HTTPClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	if _, err := neturl.ParseRequestURI(url); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		URL:         resp.Request.URL.String(),
		Body:        string(data),
		CookieCount: c.jar.Len(),
	}, nil
}
