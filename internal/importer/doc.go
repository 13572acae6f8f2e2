// Package importer drives a full series import: pick the upstream series,
// match or create it on the destination, then walk every issue creating or
// updating destination records with resolved characters, teams, arcs,
// credits, and reprints.
package importer
