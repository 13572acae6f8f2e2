// Package gcd reads the Grand Comics Database dump used as the authoritative
// side channel for reprint linking.
//
// The dump is a local MySQL database. Reprint facts are recorded between
// stories, so walking from an issue to its reprint sources goes issue ->
// stories -> reprint origins -> origin issues.
package gcd
