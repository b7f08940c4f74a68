// Package internal groups the packages that are private to goSignin.
//
// # Sub-packages
//
//   - audit: event model and async dispatcher (Dispatcher + Sink implementations)
//   - classify: ordered rule tables that turn an upstream response into a result
//   - dispatch: per-method challenge submission
//   - flows: pure-function orchestrators for every Engine operation
//   - rate: Redis fixed-window login attempt limiter
//   - transporttest: scripted transport for tests
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSignin API.
//   - Be imported by any package outside the goSignin module.
package internal
