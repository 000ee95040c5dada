// Package migrations embeds the goose SQL migrations for the Postgres
// plan store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
