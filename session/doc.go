// Package session holds the continuation: the serializable state a multi-step sign-in
// hands back to its caller between steps, and the codec that seals it into an opaque,
// signed blob.
//
// # Lifecycle
//
// A continuation is produced by a flow step, returned to the caller, and presented
// again on the next step. Nothing is retained server-side between steps. [Continuation.Clean]
// strips the pending step fields so only the authenticated transport state remains.
//
// # What this package must NOT do
//
//   - Perform network calls or page extraction.
//   - Import the root package or internal/flows (no upward imports).
//   - Persist continuations anywhere.
package session
