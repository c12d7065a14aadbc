package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is applied by the migrate command and on server start.
var Migrations = migrate.NewMigrations()
