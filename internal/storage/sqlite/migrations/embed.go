// Package migrations embeds the saved-run schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
