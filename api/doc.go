// Package api serves the goSignin engine over HTTP.
//
// Routes:
//
//	POST /login          {"token", "email", "password"}
//	POST /step_two_login {"token", "session", "method", "otp"}
//	POST /change_method  {"token", "session", "method"}
//	POST /resend_code    {"token", "session"}
//	GET  /healthz
//
// Every POST body must carry the configured API token. The outcome of each
// engine step is reported through the HTTP status code; see [LoginStatus]
// and [ChallengeStatus] for the mapping. Sessions travel as sealed
// continuation blobs in the "session" field and are opaque to clients.
//
// # What this package must NOT do
//
//   - Interpret upstream pages. All sign-in decisions come from the Engine.
//   - Keep per-user state between requests.
package api
