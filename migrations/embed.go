// Package migrations embeds the SQL schema so the server can migrate without
// the files being present on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
