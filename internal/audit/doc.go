// Package audit implements async event dispatching for sign-in steps.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, fan-out, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured record of one step with masked email, method, outcome kind
//     and diagnostic artifact id.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; the Engine does.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import goSignin or any sibling internal package.
//   - Carry raw credentials, codes or cookie values.
package audit
