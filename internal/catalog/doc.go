// Package catalog provides the HTTP client for the destination comic catalog
// service.
//
// The destination is a remote service with an enforced request ceiling, so
// every create/patch call waits on a client-side rolling-minute rate limiter
// before leaving the process, and transient transport failures are retried a
// bounded number of times with exponential backoff. Payloads are typed per
// resource kind and validated before they go on the wire.
package catalog
