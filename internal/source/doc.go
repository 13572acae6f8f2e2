// Package source provides the read-only client for the upstream comic
// metadata service that import runs pull from.
//
// The upstream addresses every entity by a typed id: the wire identifier is a
// fixed per-kind prefix joined to the numeric id ("4005-1699" is character
// 1699). Responses arrive in a common envelope whose status code signals
// service-level failures even on HTTP 200.
package source
