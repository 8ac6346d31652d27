package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Conn is the single physical connection a facade works on.
//
// It keeps the gorm handle for dialect services (error translation, schema
// parsing), the *sql.DB pinned to one open connection, and that connection.
// Statements must be prepared through PrepareContext so they all run on the
// same session (LAST_INSERT_ID and temporary tables are per session).
type Conn struct {
	gorm       *gorm.DB
	pool       *sql.DB
	conn       *sql.Conn
	descriptor string

	closeOnce sync.Once
	closeErr  error
}

// open dials through dialector and acquires one connection. Anything acquired
// before a failure is released again.
func open(ctx context.Context, dialector gorm.Dialector, descriptor string) (*Conn, error) {
	database, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		release(database)
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrConnection, descriptor, err)
	}

	pool, err := database.DB()
	if err != nil {
		release(database)
		return nil, fmt.Errorf("%w: failed to get database instance for %s: %w", ErrConnection, descriptor, err)
	}

	// One facade, one connection.
	pool.SetMaxOpenConns(1)
	pool.SetMaxIdleConns(1)

	conn, err := pool.Conn(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("%w: failed to acquire connection to %s: %w", ErrConnection, descriptor, err)
	}

	return &Conn{
		gorm:       database,
		pool:       pool,
		conn:       conn,
		descriptor: descriptor,
	}, nil
}

// release closes the pool gorm created before a failed ping. gorm only does
// this itself when the dialector fails to initialize.
func release(database *gorm.DB) {
	if database == nil {
		return
	}
	if pool, _ := database.DB(); pool != nil {
		_ = pool.Close()
	}
}

// Descriptor returns the credential-free DSN the connection was opened with.
func (c *Conn) Descriptor() string {
	return c.descriptor
}

// Gorm exposes the gorm handle backing the connection.
//
// NB: queries issued through it run on the pool, not on the pinned session;
// use it for dialect services only.
func (c *Conn) Gorm() *gorm.DB {
	return c.gorm
}

// PrepareContext prepares sqlText on the pinned connection.
func (c *Conn) PrepareContext(ctx context.Context, sqlText string) (*sql.Stmt, error) {
	return c.conn.PrepareContext(ctx, sqlText)
}

// PingContext verifies the pinned connection is alive.
func (c *Conn) PingContext(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// TranslateError maps a driver error to gorm's dialect-independent errors
// (gorm.ErrDuplicatedKey, gorm.ErrForeignKeyViolated, ...). Errors the dialect
// does not recognise are returned unchanged.
func (c *Conn) TranslateError(err error) error {
	if err == nil || c.gorm == nil {
		return err
	}
	if translator, ok := c.gorm.Dialector.(gorm.ErrorTranslator); ok {
		return translator.Translate(err)
	}
	return err
}

// Close releases the connection and the underlying handle. It is safe to call
// more than once; later calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		var errs []error
		if c.conn != nil {
			if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
				errs = append(errs, err)
			}
		}
		if c.pool != nil {
			if err := c.pool.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		c.closeErr = errors.Join(errs...)
	})
	return c.closeErr
}
