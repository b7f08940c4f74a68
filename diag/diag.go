package diag

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Sink receives diagnostic content and returns the artifact id it will be stored
// under. An empty id means nothing was recorded.
type Sink interface {
	Record(ctx context.Context, step string, content string) string
}

// Writer persists one named artifact.
type Writer interface {
	Write(ctx context.Context, name string, content []byte) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Record(context.Context, string, string) string { return "" }

const timeLayout = "20060102T150405.000000000"

var newSuffix = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ArtifactName returns "<step-slug>-<UTC timestamp>-<8 hex>.html".
func ArtifactName(step string, t time.Time) string {
	return Slug(step) + "-" + t.UTC().Format(timeLayout) + "-" + newSuffix() + ".html"
}

// Slug lowercases step and collapses every run of non-alphanumerics into one dash.
func Slug(step string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(step) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "step"
	}
	return b.String()
}
