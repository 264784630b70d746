package appfs

import "embed"

// FS holds the files shipped within the binaries: SQL migrations (one directory per engine),
// email templates and seed data.
//
//go:embed migrations all:templates seed
var FS embed.FS

// MigrationsDir is the directory holding the migrations of the given database engine.
func MigrationsDir(engine string) string {
	return "migrations/" + engine
}
