package connector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/driver/postgres"
)

const postgresDefaultPort = "5432"

// Postgres connects to PostgreSQL servers.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

// DSN renders "pgsql:host=<host>[;port=<port>];dbname=<dbname>".
func (Postgres) DSN(cfg Config) (string, error) {
	if err := requireField("host", cfg.Host); err != nil {
		return "", err
	}
	if err := requireField("dbname", cfg.DbName); err != nil {
		return "", err
	}

	if cfg.Port != "" {
		return fmt.Sprintf("pgsql:host=%s;port=%s;dbname=%s", cfg.Host, cfg.Port, cfg.DbName), nil
	}
	return fmt.Sprintf("pgsql:host=%s;dbname=%s", cfg.Host, cfg.DbName), nil
}

// DefaultOptions disables TLS unless the caller sets sslmode.
func (Postgres) DefaultOptions() Options {
	return Options{
		"sslmode": "disable",
	}
}

// Connect opens a PostgreSQL connection through pgx.
func (p Postgres) Connect(ctx context.Context, cfg Config) (*Conn, error) {
	descriptor, err := p.DSN(cfg)
	if err != nil {
		return nil, err
	}

	return open(ctx, postgres.Open(p.driverDSN(cfg)), descriptor)
}

// driverDSN renders the libpq keyword/value form, options sorted by key.
// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
func (Postgres) driverDSN(cfg Config) string {
	port := cfg.Port
	if port == "" {
		port = postgresDefaultPort
	}

	params := scalarOptions(cfg.Options)
	params["host"] = cfg.Host
	params["port"] = port
	params["dbname"] = cfg.DbName
	if cfg.Username != "" {
		params["user"] = cfg.Username
	}
	if cfg.Password != "" {
		params["password"] = cfg.Password
	}
	if cfg.Charset != "" {
		params["client_encoding"] = cfg.Charset
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + quoteLibpq(params[k])
	}
	return strings.Join(pairs, " ")
}

// quoteLibpq single-quotes values that are empty or contain spaces, quotes
// or backslashes, escaping the latter two.
func quoteLibpq(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
