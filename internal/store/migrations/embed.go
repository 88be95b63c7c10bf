// Package migrations embeds the fixture schema and seed files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
