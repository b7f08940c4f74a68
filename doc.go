// Package goSignin drives a scripted browser-style sign-in against a web
// identity provider, including every second-factor branch the provider can
// present: device prompt, authenticator code, SMS code and backup code.
//
// The engine is stateless. Each step returns an [Outcome] whose
// [Continuation] carries the cookie state and whatever is needed for the next
// step; callers hand it back (usually sealed with [Engine.SealContinuation])
// on their next request. Engine methods are safe to call from multiple
// goroutines after [Builder.Build].
//
// # Architecture boundaries
//
// goSignin is the public surface. It exposes [Engine], [Builder], [Config]
// and value types. Page parsing lives in extract, network access in
// transport, and the state machine under internal/flows.
//
// # What this package must NOT do
//
//   - Retry a network step or a rejected code on its own.
//   - Keep any per-user state between calls.
//   - Log passwords, codes, cookie values or unmasked email addresses.
//   - Attempt to solve captchas.
package goSignin
