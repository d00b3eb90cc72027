// Package migrations embeds the SQL schema for the postgres document store.
package migrations

import "embed"

// FS holds every *.sql migration.
//
//go:embed *.sql
var FS embed.FS
