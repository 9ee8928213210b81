// Package data embeds the scenarios that ship with the binaries.
package data

import "embed"

// Scenarios holds scenarios/*.json.
//
//go:embed scenarios/*.json
var Scenarios embed.FS
