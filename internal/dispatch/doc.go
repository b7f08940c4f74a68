// Package dispatch submits a two-factor challenge answer with the mechanics each
// method needs: the prompt long-poll, or a single code POST for the others.
//
// Submitters never mutate the payload they are given and never retry.
package dispatch
