package connector

import (
	"context"
	"fmt"
	"strings"
)

// Connector turns a Config into a live connection for one dialect.
//
// DSN is pure: it validates the configuration and renders the dialect's
// connection descriptor without touching the network, so it can be tested
// without a database. Connect renders the driver-level DSN and opens exactly
// one physical connection. Connectors never retry.
type Connector interface {
	// Name returns the dialect name the connector is registered under.
	Name() string

	// DSN validates cfg and returns the connection descriptor.
	DSN(cfg Config) (string, error)

	// DefaultOptions returns the driver flags callers' options are merged over.
	DefaultOptions() Options

	// Connect opens the connection described by cfg.
	Connect(ctx context.Context, cfg Config) (*Conn, error)
}

// New returns the built-in connector for a dialect name.
func New(name string) (Connector, error) {
	switch name {
	case "mysql", "mariadb":
		return MySQL{}, nil
	case "postgres", "pgsql":
		return Postgres{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrConfiguration, name)
	}
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %q can not be blank", ErrConfiguration, name)
	}
	return nil
}
