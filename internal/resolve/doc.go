// Package resolve turns upstream entity references into destination catalog
// ids.
//
// Resolution is cache-first against the conversion store, then destination
// search with operator disambiguation, then create-on-confirm. Everything the
// operator declines is remembered for the rest of the run so the same
// question is never asked twice in one session.
package resolve
