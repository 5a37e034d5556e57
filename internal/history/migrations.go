package history

import "embed"

// Migrations holds the schema migrations for the solve run history,
// applied through database.RunMigrations at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"
