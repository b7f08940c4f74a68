// Package outcome defines the tagged result every sign-in operation returns and the
// closed set of error kinds it can carry.
package outcome
