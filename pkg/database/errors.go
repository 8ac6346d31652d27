package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
)

var (
	// ErrConfiguration is returned for missing settings, unknown drivers and
	// unusable model bindings.
	ErrConfiguration = connector.ErrConfiguration

	// ErrConnection is returned when the connection cannot be opened.
	ErrConnection = connector.ErrConnection

	// ErrStatement wraps every build, prepare, execute and fetch failure.
	ErrStatement = errors.New("statement error")

	// ErrInvalidState is returned when a call is not allowed in the current
	// lifecycle state, for example chaining onto an executed statement.
	ErrInvalidState = errors.New("invalid state")

	// ErrNoQuery is returned when Execute is called with nothing accumulated.
	ErrNoQuery = errors.New("no query to execute")

	// ErrNoInsert is returned by LastInsertID before any insert ran on the
	// current connection.
	ErrNoInsert = errors.New("no insert executed on this connection")

	// ErrClosed is returned by terminal calls after Close.
	ErrClosed = errors.New("database is closed")

	// ErrModelType is returned when a row cannot be hydrated into the bound
	// model, or a typed fetch finds values of another type.
	ErrModelType = errors.New("model type mismatch")
)

// Common database error types that can be used by consumers of this package.
// They abstract away the dialect-specific error details.
var (
	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")
)

// TranslateError converts gorm's dialect-independent errors into the
// standardized errors above. Errors that don't match any known type are
// returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if sentinel := sentinelFor(err); sentinel != nil {
		return sentinel
	}
	return err
}

func sentinelFor(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	}
	return nil
}

// statementError wraps a driver failure in ErrStatement. When the dialect
// recognises the failure, the standardized error is wrapped as well so both
// errors.Is(err, ErrStatement) and errors.Is(err, ErrDuplicateKey) hold.
func (d *Database) statementError(op string, err error) error {
	translated := err
	if d.conn != nil {
		translated = d.conn.TranslateError(err)
	}
	if sentinel := sentinelFor(translated); sentinel != nil {
		return fmt.Errorf("%w: %s: %w: %w", ErrStatement, op, sentinel, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStatement, op, err)
}
