// Package migrations embeds the SQL schema files
package migrations

import "embed"

// FS holds every *.sql migration, applied in lexical order by database.DB.Migrate
//
//go:embed *.sql
var FS embed.FS
