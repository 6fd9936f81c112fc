// Package config loads inkwell settings from TOML.
//
// A configuration file looks like:
//
//	[editor]
//	tab-width = 4
//	word-wrap = true
//	width = 80
//
//	[log]
//	level = "debug"
//	file = "/tmp/inkwell.log"
//
// Missing keys keep their defaults. Unknown keys are rejected so typos are
// reported instead of silently ignored. Watch reloads the file whenever it
// changes on disk.
package config
