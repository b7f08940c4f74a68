package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func newHSManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: []byte("0123456789abcdef0123456789abcdef")})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestSealOpenRoundTrip(t *testing.T) {
	m := newHSManager(t)
	token, err := m.Seal([]byte(`{"pending_url":"https://example.test/x"}`))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	payload, err := m.Open(token)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(payload) != `{"pending_url":"https://example.test/x"}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestSealRejectsEmptyAndNonJSON(t *testing.T) {
	m := newHSManager(t)
	if _, err := m.Seal(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
	if _, err := m.Seal([]byte("not json")); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload for non-JSON, got %v", err)
	}
}

func TestOpenRejectsTamperedToken(t *testing.T) {
	m := newHSManager(t)
	token, err := m.Seal([]byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	other, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: []byte("another-secret-another-secret-00")})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	forged, err := other.Seal([]byte(`{"a":2}`))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	parts[1] = forgedParts[1]
	if _, err := m.Open(strings.Join(parts, ".")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for swapped claims, got %v", err)
	}
	if _, err := m.Open(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign key, got %v", err)
	}
	if _, err := m.Open("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestOpenRejectsExpiredToken(t *testing.T) {
	m := newHSManager(t)
	base := time.Now()
	m.now = func() time.Time { return base }
	token, err := m.Seal([]byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := m.Open(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestOpenRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := PayloadClaims{Payload: []byte(`{"a":1}`), RegisteredClaims: gjwt.RegisteredClaims{ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute))}}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims)
	token, err := tok.SignedString([]byte("secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := m.Open(token); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestEd25519IssuerAudience(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "gosignin",
		Audience:      "api",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.Seal([]byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := m.Open(token); err != nil {
		t.Fatalf("expected valid token to open: %v", err)
	}

	wrongIssuer := PayloadClaims{Payload: []byte(`{"a":1}`), RegisteredClaims: gjwt.RegisteredClaims{
		Issuer:    "other",
		Audience:  gjwt.ClaimStrings{"api"},
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	bad, _ := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, wrongIssuer).SignedString(priv)
	if _, err := m.Open(bad); err == nil {
		t.Fatal("expected wrong issuer to fail")
	}
}

func TestOpenRequiresExpiry(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: secret})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	claims := PayloadClaims{Payload: []byte(`{"a":1}`)}
	token, _ := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString(secret)
	if _, err := m.Open(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected token without exp to fail, got %v", err)
	}
}

func TestUnknownKidFails(t *testing.T) {
	pub1, priv1 := newEdKeys(t)
	pub2, priv2 := newEdKeys(t)
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv1,
		KeyID:         "k1",
		VerifyKeys:    map[string][]byte{"k1": pub1, "k2": pub2},
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := PayloadClaims{Payload: []byte(`{"a":1}`), RegisteredClaims: gjwt.RegisteredClaims{ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute))}}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, claims)
	tok.Header["kid"] = "k3"
	signed, _ := tok.SignedString(priv2)
	if _, err := m.Open(signed); err == nil {
		t.Fatal("expected unknown kid to fail")
	}

	rotated := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, claims)
	rotated.Header["kid"] = "k2"
	signed, _ = rotated.SignedString(priv2)
	if _, err := m.Open(signed); err != nil {
		t.Fatalf("expected rotated verify key to open: %v", err)
	}
}

func TestNewManagerValidation(t *testing.T) {
	cases := []Config{
		{TTL: 0, SigningMethod: MethodHS256, PrivateKey: []byte("k")},
		{TTL: time.Minute, SigningMethod: MethodHS256},
		{TTL: time.Minute, SigningMethod: MethodEd25519},
		{TTL: time.Minute, SigningMethod: "rs256", PrivateKey: []byte("k")},
		{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: []byte("k"), Leeway: time.Hour},
	}
	for i, cfg := range cases {
		if _, err := NewManager(cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
