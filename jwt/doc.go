// Package jwt seals opaque payloads into signed, expiring tokens and opens them again
// with strict validation. The sign-in flows use it to hand continuation state to the
// caller without keeping anything server-side.
package jwt
