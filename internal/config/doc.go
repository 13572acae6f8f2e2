// Package config loads, validates, and normalizes the longbox TOML
// configuration.
//
// Configuration covers the destination catalog credentials and rate ceiling,
// the source metadata provider, the optional grassroots reprint database, the
// conversion cache location, and the resource denylist. Load expands and
// normalizes every path so downstream code never deals with "~" or relative
// locations.
package config
