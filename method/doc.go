// Package method is the static catalog of the two-factor mechanisms a remote account may
// challenge with during sign-in.
//
// # Wire contract
//
// The numeric codes (Prompt=1 … BackupCode=4) and their ordering are part of the public
// API contract: callers send them back on the challenge step. They must never be
// renumbered.
//
// # Architecture boundaries
//
// This package is a pure in-memory table with no I/O. It maps between method codes,
// display names shown on the remote method-selection page, and the protocol tags that
// appear in challenge URLs.
//
// # What this package must NOT do
//
//   - Access the network or parse markup.
//   - Import goSignin or any sibling package.
package method
