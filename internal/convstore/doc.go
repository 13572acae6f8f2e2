// Package convstore persists the mapping from external source ids to
// destination catalog ids.
//
// The store is the single source of truth for "have we already resolved this
// source id": every resolution path checks it before any network search or
// operator prompt, and writes back on every successful resolution. Two
// independent namespaces exist, one keyed by the primary metadata provider's
// ids and one keyed by the grassroots database's ids; they are never
// cross-queried.
//
// Each mutation commits immediately, so an aborted run always leaves a
// consistent, resumable cache. A file lock enforces the one-interactive-
// session-at-a-time assumption.
package convstore
