// Package migrations provides embedded SQL migrations for the application
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sql
var migrationsFS embed.FS

// FS returns the embedded migrations filesystem. The SQL files live under
// the "sql" directory; the database package builds its migration source
// from this.
func FS() fs.FS {
	return migrationsFS
}
