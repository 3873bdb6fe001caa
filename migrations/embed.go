// Package migrations embeds the SQL migration files so they can be applied
// through the goose programmatic API at startup and in tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to a goose.Provider so the schema ships inside the binary and
// never depends on a filesystem path at runtime.
//
//go:embed *.sql
var FS embed.FS
