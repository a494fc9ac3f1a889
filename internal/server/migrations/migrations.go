// Package migrations embeds the SQL migrations for the slot ledger.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
