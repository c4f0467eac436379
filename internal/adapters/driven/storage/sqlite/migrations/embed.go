// Package migrations holds the SQLite schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
