package connector

import (
	"context"
	"net/url"
	"strings"

	"gorm.io/driver/sqlite"
)

// SQLite opens SQLite database files (or ":memory:") through mattn/go-sqlite3.
// Only DbName is required; Host and Port are ignored.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

// DSN renders "sqlite:<dbname>".
func (SQLite) DSN(cfg Config) (string, error) {
	if err := requireField("dbname", cfg.DbName); err != nil {
		return "", err
	}
	return "sqlite:" + cfg.DbName, nil
}

// DefaultOptions turns foreign key enforcement on.
func (SQLite) DefaultOptions() Options {
	return Options{
		"_foreign_keys": "1",
	}
}

// Connect opens the database file. Scalar options become DSN query
// parameters (_busy_timeout, _journal_mode, ...).
func (s SQLite) Connect(ctx context.Context, cfg Config) (*Conn, error) {
	descriptor, err := s.DSN(cfg)
	if err != nil {
		return nil, err
	}

	return open(ctx, sqlite.Open(s.driverDSN(cfg)), descriptor)
}

func (SQLite) driverDSN(cfg Config) string {
	params := url.Values{}
	for k, v := range scalarOptions(cfg.Options) {
		params.Set(k, v)
	}
	if len(params) == 0 {
		return cfg.DbName
	}

	sep := "?"
	if strings.Contains(cfg.DbName, "?") {
		sep = "&"
	}
	return cfg.DbName + sep + params.Encode()
}
