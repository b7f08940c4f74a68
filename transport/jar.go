package transport

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Jar wraps cookiejar.Jar and keeps its own index so the stored set can be
// enumerated and exported as a [State].
type Jar struct {
	mu    sync.RWMutex
	inner *cookiejar.Jar
	index map[string]Cookie
	now   func() time.Time
}

// NewJar creates a jar rehydrated from state.
func NewJar(state State) (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		inner: inner,
		index: make(map[string]Cookie, len(state.Cookies)),
		now:   time.Now,
	}
	for _, c := range state.Cookies {
		if j.expired(c) {
			continue
		}
		host := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
		if host == "" {
			continue
		}
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		if c.Path == "" {
			c.Path = "/"
		}
		c.Domain = host
		u := &neturl.URL{Scheme: scheme, Host: host, Path: c.Path}
		j.inner.SetCookies(u, []*http.Cookie{toHTTP(c)})
		j.index[cookieKey(c.Domain, c.Path, c.Name)] = c
	}
	return j, nil
}

func (j *Jar) Cookies(u *neturl.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

func (j *Jar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	if u.Scheme != "http" && u.Scheme != "https" {
		return
	}
	host := canonicalHost(u.Host)

	for _, hc := range cookies {
		// Mirror the inner jar: a cookie it refused must not be counted or exported.
		domain, hostOnly, ok := cookieDomain(host, hc.Domain)
		if !ok {
			continue
		}
		path := hc.Path
		if path == "" || path[0] != '/' {
			path = defaultPath(u.Path)
		}
		key := cookieKey(domain, path, hc.Name)

		// MaxAge<0 or an Expires in the past deletes the cookie.
		if hc.MaxAge < 0 || (!hc.Expires.IsZero() && !hc.Expires.After(j.now())) {
			delete(j.index, key)
			continue
		}
		c := Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Domain:   domain,
			HostOnly: hostOnly,
			Path:     path,
			Expires:  hc.Expires,
			Secure:   hc.Secure,
			HttpOnly: hc.HttpOnly,
		}
		if hc.MaxAge > 0 {
			c.Expires = j.now().Add(time.Duration(hc.MaxAge) * time.Second)
		}
		j.index[key] = c
	}
}

// Len returns the number of live cookies.
func (j *Jar) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n := 0
	for _, c := range j.index {
		if !j.expired(c) {
			n++
		}
	}
	return n
}

// State exports the live cookies in a stable order.
func (j *Jar) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Cookie, 0, len(j.index))
	for _, c := range j.index {
		if j.expired(c) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		return cookieKey(out[a].Domain, out[a].Path, out[a].Name) < cookieKey(out[b].Domain, out[b].Path, out[b].Name)
	})
	if len(out) == 0 {
		return State{}
	}
	return State{Cookies: out}
}

func (j *Jar) expired(c Cookie) bool {
	return !c.Expires.IsZero() && !c.Expires.After(j.now())
}

// toHTTP leaves Domain empty for host-only cookies so the inner jar keeps
// them scoped to the exact host.
func toHTTP(c Cookie) *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if !c.HostOnly {
		hc.Domain = c.Domain
	}
	return hc
}

// cookieKey matches the identity the inner jar uses (RFC 6265 section 5.3
// step 11): a host-only and a domain cookie with the same name, domain and
// path replace each other.
func cookieKey(domain, path, name string) string {
	return strings.TrimPrefix(domain, ".") + "|" + path + "|" + name
}

func canonicalHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}

// cookieDomain applies the Domain attribute rules of RFC 6265 section 5.3
// the way net/http/cookiejar does without a public suffix list.
func cookieDomain(host, attr string) (domain string, hostOnly bool, ok bool) {
	if host == "" {
		return "", false, false
	}
	if attr == "" {
		return host, true, true
	}
	if net.ParseIP(host) != nil {
		return host, true, host == attr
	}
	domain = strings.ToLower(strings.TrimPrefix(attr, "."))
	if domain == "" || domain[0] == '.' || strings.HasSuffix(domain, ".") {
		return "", false, false
	}
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return "", false, false
	}
	return domain, false, true
}

// defaultPath follows RFC 6265 section 5.1.4.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}
