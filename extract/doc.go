// Package extract pulls structured data out of remote sign-in pages: hidden form
// fields, the list of enabled two-factor methods, prompt parameters, the masked phone
// number and inline error text.
//
// # Markers
//
// Every free-text marker the flows match against (credential rejection, captcha,
// wrong code, too many attempts, …) is configuration data exposed through
// [Extractor.Markers]. Control flow never embeds page strings directly, so a page
// wording change is a configuration change.
//
// # What this package must NOT do
//
//   - Perform network calls.
//   - Decide flow outcomes; it only reports what the page contains.
package extract
