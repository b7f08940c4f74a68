// Package classify maps raw remote responses onto a closed set of results using
// ordered rule tables.
//
// Rules are evaluated top to bottom and the first match wins, so a page that
// coincidentally contains several markers still lands in exactly one result. Every
// marker comes from configuration ([extract.Markers]); no page text is hard-coded
// here.
//
// # What this package must NOT do
//
//   - Perform network calls or parse markup.
//   - Decide follow-up requests; flows act on the result.
package classify
