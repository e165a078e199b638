// Package data holds the default catalog shipped with the binary.
package data

import "embed"

// FS contains the default catalog YAML files.
//
//go:embed *.yaml
var FS embed.FS
