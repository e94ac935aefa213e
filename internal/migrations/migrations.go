package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/goran-ethernal/BlockDoctor/internal/db"
	"github.com/goran-ethernal/BlockDoctor/internal/logger"
)

//go:embed 001_block_cache.sql
var mig001 string

func migrations() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_block_cache.sql",
			SQL: mig001,
		},
	}
}

// RunMigrations applies the block cache schema to the database at dbPath.
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, migrations())
}

// RunMigrationsDB applies the block cache schema to an open database.
func RunMigrationsDB(log *logger.Logger, database *sql.DB) error {
	return db.RunMigrationsDB(log, database, migrations())
}
