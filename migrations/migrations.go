// Package migrations holds the versioned schema migrations that are applied
// once at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
