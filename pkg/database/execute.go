package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

const executeSpanName = "database.execute"

// statement is the one live prepared statement of a cycle. Row-returning
// statements keep their cursor open until the statement is closed.
type statement struct {
	stmt    *sql.Stmt
	rows    *sql.Rows
	columns []string
}

// next reads one row. It reports false once the cursor is exhausted, and
// always for statements without a result set.
func (s *statement) next() (query.Row, bool, error) {
	if s.rows == nil {
		return nil, false, nil
	}
	if !s.rows.Next() {
		return nil, false, s.rows.Err()
	}

	values := make([]any, len(s.columns))
	pointers := make([]any, len(s.columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := s.rows.Scan(pointers...); err != nil {
		return nil, false, err
	}

	row := make(query.Row, len(s.columns))
	for i, column := range s.columns {
		// Text arrives as []byte from most drivers.
		if b, ok := values[i].([]byte); ok {
			row[column] = string(b)
			continue
		}
		row[column] = values[i]
	}
	return row, true, nil
}

func (s *statement) close() error {
	var errs []error
	if s.rows != nil {
		errs = append(errs, s.rows.Close())
	}
	if s.stmt != nil {
		errs = append(errs, s.stmt.Close())
	}
	return errors.Join(errs...)
}

// Execute builds and runs the accumulated statement and returns the facade so
// rows can be fetched with All or First. It fails with ErrNoQuery when
// nothing was accumulated and with ErrInvalidState when a statement already
// ran in this cycle. On failure no statement is bound.
func (d *Database) Execute(ctx context.Context) (*Database, error) {
	if err := d.execute(ctx); err != nil {
		return d, err
	}
	return d, nil
}

// ExecuteStatus is Execute reporting the execution status instead of the
// facade. The state is not cleared; call Clear before the next query.
func (d *Database) ExecuteStatus(ctx context.Context) (bool, error) {
	if err := d.execute(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Database) execute(ctx context.Context) error {
	if d.conn == nil {
		return ErrClosed
	}
	if d.stmt != nil {
		return fmt.Errorf("%w: statement already executed, call Clear first", ErrInvalidState)
	}
	if d.err != nil {
		return d.err
	}
	if d.builder.IsEmpty() {
		return ErrNoQuery
	}

	kind := d.builder.Kind()
	returnsRows := d.builder.ReturnsRows()

	d.grammar.Clear()
	sqlText, params, err := d.builder.Build(d.grammar)
	if err != nil {
		return fmt.Errorf("%w: build %s: %w", ErrStatement, kind, err)
	}

	fields := map[string]interface{}{
		"driver": d.cfg.Driver,
		"kind":   kind.String(),
		"sql":    sqlText,
	}

	if d.tracer != nil {
		var span trace.Span
		ctx, span = d.tracer.StartSpan(ctx, executeSpanName)
		defer span.End()
		d.tracer.SetAttributes(span, map[string]interface{}{
			"db.system":    d.cfg.Driver,
			"db.operation": kind.String(),
			"db.statement": sqlText,
		})
		defer func() {
			if err != nil {
				d.tracer.RecordErrorOnSpan(span, err)
			}
		}()
	}

	start := time.Now()
	var st *statement
	st, err = d.run(ctx, sqlText, params, returnsRows, kind)
	if d.metrics != nil {
		d.metrics.ObserveQuery(d.cfg.Driver, kind.String(), time.Since(start), err)
	}
	if err != nil {
		d.logger.Error("statement failed", err, fields)
		return err
	}

	d.stmt = st
	d.logger.Debug("statement executed", nil, fields)
	return nil
}

// run prepares sqlText on the pinned connection and executes it once.
func (d *Database) run(ctx context.Context, sqlText string, params []any, returnsRows bool, kind query.Kind) (*statement, error) {
	stmt, err := d.conn.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, d.statementError("prepare", err)
	}

	if returnsRows {
		rows, err := stmt.QueryContext(ctx, params...)
		if err != nil {
			_ = stmt.Close()
			return nil, d.statementError("query", err)
		}
		columns, err := rows.Columns()
		if err != nil {
			_ = rows.Close()
			_ = stmt.Close()
			return nil, d.statementError("columns", err)
		}
		return &statement{stmt: stmt, rows: rows, columns: columns}, nil
	}

	result, err := stmt.ExecContext(ctx, params...)
	if err != nil {
		_ = stmt.Close()
		return nil, d.statementError("exec", err)
	}

	d.lastExec = result
	if kind == query.KindInsert || (kind == query.KindRaw && insertsRows(sqlText)) {
		d.lastInsert = result
	}
	return &statement{stmt: stmt}, nil
}

// ensureExecuted runs the accumulated statement unless this cycle already did.
func (d *Database) ensureExecuted(ctx context.Context) error {
	if d.err != nil {
		return d.err
	}
	if d.stmt != nil {
		return nil
	}
	return d.execute(ctx)
}

func insertsRows(sqlText string) bool {
	switch query.LeadingKeyword(sqlText) {
	case "INSERT", "REPLACE":
		return true
	}
	return false
}
