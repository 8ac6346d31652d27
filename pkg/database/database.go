package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

// Database is a fluent query facade over one physical connection.
//
// It owns one connector, one grammar, one query builder and at most one live
// statement. Chained calls accumulate intent; a terminal call (Execute, All,
// First or one of the immediate-mode calls) builds and runs it. All, First
// and the immediate-mode calls clear the accumulated state before returning.
//
// A Database is not safe for concurrent use. Use one instance per goroutine.
type Database struct {
	cfg       connector.Config
	connector connector.Connector
	grammar   query.Grammar
	builder   *query.Builder
	conn      *connector.Conn

	stmt  *statement
	model ModelFactory
	// err holds the first chaining error of the cycle until a terminal
	// call reports it.
	err error

	lastInsert sql.Result
	lastExec   sql.Result

	logger  Logger
	metrics Observer
	tracer  Tracer
	ctx     context.Context
}

// New merges cfg over the defaults, resolves its driver and connects.
//
// Example:
//
//	db, err := database.New(connector.Config{
//	    Driver:   "mysql",
//	    Host:     "localhost",
//	    DbName:   "app",
//	    Username: "app",
//	    Password: "secret",
//	}, database.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	rows, err := db.Table("users").Where("age", ">", 18, query.And).Desc("id").All(ctx)
func New(cfg connector.Config, opts ...Option) (*Database, error) {
	d := &Database{
		logger: nopLogger{},
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}

	merged := connector.Merge(connector.DefaultConfig(), cfg)
	driver, err := lookupDriver(merged.Driver)
	if err != nil {
		return nil, err
	}

	con := driver.Connector()
	merged.Options = connector.MergeOptions(con.DefaultOptions(), merged.Options)

	conn, err := con.Connect(d.ctx, merged)
	if err != nil {
		d.logger.Error("failed to connect to database", err, map[string]interface{}{
			"driver": merged.Driver,
		})
		return nil, err
	}

	d.cfg = merged
	d.connector = con
	d.grammar = driver.Grammar()
	d.builder = query.New()
	d.conn = conn

	if d.metrics != nil {
		d.metrics.ConnectionOpened(merged.Driver)
	}
	d.logger.Info("Successfully connected to database", nil, map[string]interface{}{
		"driver": merged.Driver,
		"dsn":    conn.Descriptor(),
	})

	return d, nil
}

// NewFromMap decodes the map form of a configuration and calls New.
func NewFromMap(raw map[string]any, opts ...Option) (*Database, error) {
	cfg, err := connector.FromMap(raw)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Config returns the merged configuration the connection was opened with.
func (d *Database) Config() connector.Config {
	cfg := d.cfg
	cfg.Options = connector.MergeOptions(nil, d.cfg.Options)
	return cfg
}

// Driver returns the driver name in use.
func (d *Database) Driver() string {
	return d.cfg.Driver
}

// Conn exposes the underlying connection, nil after Close.
func (d *Database) Conn() *connector.Conn {
	return d.conn
}

// Reconnect opens a new connection with the same configuration and then
// releases the old one. Accumulated state is cleared. When connecting fails
// the old connection stays in place.
func (d *Database) Reconnect(ctx context.Context) error {
	conn, err := d.connector.Connect(ctx, d.cfg)
	if err != nil {
		d.logger.Error("failed to reconnect to database", err, map[string]interface{}{
			"driver": d.cfg.Driver,
		})
		return err
	}

	d.Clear()
	old := d.conn
	d.conn = conn
	d.lastInsert = nil
	d.lastExec = nil

	if old != nil {
		if err := old.Close(); err != nil {
			d.logger.Warn("failed to close previous connection", err, map[string]interface{}{
				"driver": d.cfg.Driver,
			})
		}
		if d.metrics != nil {
			d.metrics.ConnectionClosed(d.cfg.Driver)
		}
	}
	if d.metrics != nil {
		d.metrics.ConnectionOpened(d.cfg.Driver)
	}

	d.logger.Info("Reconnected to database", nil, map[string]interface{}{
		"driver": d.cfg.Driver,
		"dsn":    conn.Descriptor(),
	})
	return nil
}

// Close clears the accumulated state and releases the connection. Calling it
// again is a no-op.
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}

	d.Clear()
	err := d.conn.Close()
	d.conn = nil
	d.lastInsert = nil
	d.lastExec = nil

	if d.metrics != nil {
		d.metrics.ConnectionClosed(d.cfg.Driver)
	}
	if err != nil {
		d.logger.Error("failed to close database connection", err, map[string]interface{}{
			"driver": d.cfg.Driver,
		})
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	d.logger.Info("Database connection closed", nil, map[string]interface{}{
		"driver": d.cfg.Driver,
	})
	return nil
}

// Clear discards the live statement and the model binding, and resets the
// builder and grammar. It is valid in every state.
func (d *Database) Clear() {
	if d.stmt != nil {
		if err := d.stmt.close(); err != nil {
			d.logger.Warn("failed to release statement", err, map[string]interface{}{
				"driver": d.cfg.Driver,
			})
		}
		d.stmt = nil
	}
	d.model = nil
	d.err = nil
	if d.builder != nil {
		d.builder.Clear()
	}
	if d.grammar != nil {
		d.grammar.Clear()
	}
}

// ClearModel drops the model binding and keeps the accumulated query.
func (d *Database) ClearModel() {
	d.model = nil
}

// LastInsertID returns the identifier generated by the most recent insert on
// the current connection. Drivers without the capability (pgx) return an
// ErrStatement; use a RETURNING clause there.
func (d *Database) LastInsertID() (int64, error) {
	if d.lastInsert == nil {
		return 0, ErrNoInsert
	}
	id, err := d.lastInsert.LastInsertId()
	if err != nil {
		return 0, d.statementError("last insert id", err)
	}
	return id, nil
}

// RowsAffected returns the number of rows changed by the most recent
// non-row-returning statement.
func (d *Database) RowsAffected() (int64, error) {
	if d.lastExec == nil {
		return 0, ErrNoQuery
	}
	n, err := d.lastExec.RowsAffected()
	if err != nil {
		return 0, d.statementError("rows affected", err)
	}
	return n, nil
}
