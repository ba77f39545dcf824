package migrations

import (
	"embed"
)

// migrationsFS embeds all SQL migration files per dialect.
// Structure:
//
//	.
//	|-- sqlite
//	|   |-- migrations
//	|       |-- *.sql
//	|-- postgres
//	|   |-- migrations
//	|       |-- *.sql
//
//go:embed sqlite/migrations/*.sql postgres/migrations/*.sql
var migrationsFS embed.FS

func GetFS() embed.FS {
	return migrationsFS
}
