// Package schemas embeds the JSON Schema documents that describe ats-scorer's
// configuration and wire formats.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS
