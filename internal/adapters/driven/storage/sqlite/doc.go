// Package sqlite stores credential bundles and search history in a single
// SQLite file, ~/.sercha/data/metadata.db unless a data directory is given.
//
// It uses modernc.org/sqlite, so no CGO is needed. The connection runs in
// WAL mode with a busy timeout, which makes the stores safe to share across
// goroutines. Schema changes are the numbered *.up.sql files under
// migrations/, applied in order on open.
package sqlite
