// Package flows contains the pure-function orchestrators behind every Engine
// sign-in operation.
//
// Each flow function (RunBeginLogin, RunSubmitChallenge, RunChangeMethod,
// RunResendCode) takes its inputs plus a [Deps] value and returns an
// [outcome.Outcome]. All network access goes through the transport factory in Deps
// and every page is read through the extractor, so flows are exercised in tests
// with a scripted transport.
//
// # Architecture boundaries
//
// Flows coordinate transport, extraction, classification, dispatch and the
// diagnostic sink. They do NOT own any of these resources; ownership stays with the
// Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSignin (to avoid import cycles).
//   - Retry any remote call.
//   - Mutate a continuation passed in by the caller.
package flows
