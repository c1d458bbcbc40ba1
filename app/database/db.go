package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the SQLite database at path. Pragmas are
// passed in the DSN so that every pooled connection gets them; file
// databases run in WAL mode.
func Open(path string) (*DB, error) {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}

	dsn := path
	if path == memoryPath {
		dsn = "file::memory:?cache=shared"
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		pragmas = append(pragmas, "journal_mode(WAL)")
	}
	dsn = withPragmas(dsn, pragmas)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == memoryPath {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

func withPragmas(dsn string, pragmas []string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		dsn += sep + "_pragma=" + p
		sep = "&"
	}
	return dsn
}
