// Package middleware holds the HTTP middleware the goSignin API server wraps
// around its routes.
//
//   - [RequestContext] stores the client IP and a request id in the context
//     with goSignin.WithClientIP and goSignin.WithRequestID.
//   - [Recover] converts handler panics into 500 responses.
//
// # What this package must NOT do
//
//   - Call the Engine. Sign-in decisions belong to the api package.
//   - Trust X-Forwarded-For unless the caller opts in.
package middleware
