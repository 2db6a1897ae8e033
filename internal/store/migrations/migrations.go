// Package migrations embeds the goose SQL migrations for the SQLite key-value store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
