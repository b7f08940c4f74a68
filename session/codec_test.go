package session

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MrEthical07/goSignin/jwt"
)

func newTestCodec(t *testing.T) (*Codec, *jwt.Manager) {
	t.Helper()
	m, err := jwt.NewManager(jwt.Config{TTL: 30 * time.Minute, SigningMethod: jwt.MethodHS256, PrivateKey: []byte("continuation-secret-continuation")})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return NewCodec(m), m
}

func TestCodecRoundTrip(t *testing.T) {
	codec, _ := newTestCodec(t)
	in := sampleContinuation()
	blob, err := codec.Seal(in)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	out, err := codec.Open(blob)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
	if codec.TTL() != 30*time.Minute {
		t.Fatalf("unexpected ttl %v", codec.TTL())
	}
}

func TestCodecRejectsInvalidBlobs(t *testing.T) {
	codec, m := newTestCodec(t)
	for _, blob := range []string{"", "abc", "a.b.c"} {
		if _, err := codec.Open(blob); !errors.Is(err, ErrContinuationInvalid) {
			t.Fatalf("blob %q: expected ErrContinuationInvalid, got %v", blob, err)
		}
	}

	raw, _ := json.Marshal(envelope{Version: 99})
	future, err := m.Seal(raw)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := codec.Open(future); !errors.Is(err, ErrContinuationInvalid) {
		t.Fatalf("expected unknown schema version to fail, got %v", err)
	}
}

func TestNilCodec(t *testing.T) {
	var codec *Codec
	if _, err := codec.Seal(Continuation{}); !errors.Is(err, ErrCodecUnavailable) {
		t.Fatalf("expected ErrCodecUnavailable, got %v", err)
	}
	if _, err := codec.Open("x"); !errors.Is(err, ErrCodecUnavailable) {
		t.Fatalf("expected ErrCodecUnavailable, got %v", err)
	}
}
