// Package textutil provides text helpers for name matching and search-string
// sanitization.
//
// Label comparisons across the resolver and reprint matcher go through Unicode
// case folding so that provider data with inconsistent casing still matches
// destination records.
package textutil
