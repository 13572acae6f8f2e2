// Package logging assembles the structured slog loggers used across longbox.
//
// It owns the console/JSON handler selection, level parsing, and log file
// plumbing, and exposes attr helpers plus a no-op logger so wiring code and
// tests never need hand-rolled slog setup.
package logging
