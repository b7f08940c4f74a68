// Package rate provides the Redis-backed sign-in attempt limiter.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Keys:
//   - <prefix>:rl:e:<sha256(email)[:24]>  per email
//   - <prefix>:rl:ip:<ip>                 per client IP (optional)
//
// Only rejected credentials and captcha walls count against the budget; an
// authenticated session clears it.
//
// # What this package must NOT do
//
//   - Store raw email addresses in Redis keys.
//   - Be imported outside the goSignin module.
package rate
