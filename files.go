package auth

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS exposes the embedded users and tokens table
// migrations so hosts can run them with their own migrator
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
