// Package transport is the HTTP collaborator of the sign-in flows: it issues GET/POST
// calls, follows redirects, and holds the cookie state that authenticates the remote
// session.
//
// # State ownership
//
// Cookie state is exported as a plain [State] value so it can be serialized into a
// continuation and handed back on the next call. A [Client] is built from a State by a
// [Factory] at the start of every step and discarded afterwards; nothing is pooled or
// shared between flows.
//
// # What this package must NOT do
//
//   - Retry requests. A failed call is surfaced once as [ErrTransport].
//   - Treat non-2xx statuses as errors; classification belongs to the caller.
//   - Parse markup.
package transport
