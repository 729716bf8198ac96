// Package migrations embeds the SQL migrations so the migrate binary works
// outside the source tree.
package migrations

import "embed"

//go:embed salesops/*.sql
var FS embed.FS
