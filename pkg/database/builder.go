package database

import (
	"fmt"

	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

// chain forwards one accumulation call to the builder. Once a statement has
// run the builder is frozen: the call is dropped and ErrInvalidState is kept
// for the next terminal call.
func (d *Database) chain(method string, fn func(b *query.Builder)) *Database {
	if d.stmt != nil {
		if d.err == nil {
			d.err = fmt.Errorf("%w: %s called after execution, call Clear first", ErrInvalidState, method)
		}
		return d
	}
	fn(d.builder)
	return d
}

// Table sets the target table.
func (d *Database) Table(name string) *Database {
	return d.chain("Table", func(b *query.Builder) { b.SetTable(name) })
}

// SQL replaces the accumulated intent with raw SQL and its parameters.
func (d *Database) SQL(raw string, params ...any) *Database {
	return d.chain("SQL", func(b *query.Builder) { b.SQL(raw, params...) })
}

// Select selects columns; no columns selects all.
func (d *Database) Select(columns ...string) *Database {
	return d.chain("Select", func(b *query.Builder) { b.Select(columns...) })
}

// Insert accumulates an insert of values; run it with Execute. See InsertNow
// for the single-call form.
func (d *Database) Insert(values map[string]any) *Database {
	return d.chain("Insert", func(b *query.Builder) { b.Insert(values) })
}

// Update accumulates an update of values, usually followed by Where calls.
// See UpdateByKey for the single-call form.
func (d *Database) Update(values map[string]any) *Database {
	return d.chain("Update", func(b *query.Builder) { b.Update(values) })
}

// Delete accumulates a delete, usually followed by Where calls. See
// DeleteByKey for the single-call form.
func (d *Database) Delete() *Database {
	return d.chain("Delete", func(b *query.Builder) { b.Delete() })
}

// WhereQ appends a parenthesised predicate group built by fn.
func (d *Database) WhereQ(fn func(q *query.Builder), connective query.Connective) *Database {
	return d.chain("WhereQ", func(b *query.Builder) { b.WhereQ(fn, connective) })
}

// Where appends a comparison predicate joined by connective.
func (d *Database) Where(column, operator string, value any, connective query.Connective) *Database {
	return d.chain("Where", func(b *query.Builder) { b.Where(column, operator, value, connective) })
}

// AndWhere is Where joined with AND.
func (d *Database) AndWhere(column, operator string, value any) *Database {
	return d.chain("AndWhere", func(b *query.Builder) { b.AndWhere(column, operator, value) })
}

// OrWhere is Where joined with OR.
func (d *Database) OrWhere(column, operator string, value any) *Database {
	return d.chain("OrWhere", func(b *query.Builder) { b.OrWhere(column, operator, value) })
}

// Like appends a LIKE predicate joined by connective.
func (d *Database) Like(column string, pattern any, connective query.Connective) *Database {
	return d.chain("Like", func(b *query.Builder) { b.Like(column, pattern, connective) })
}

// AndLike is Like joined with AND.
func (d *Database) AndLike(column string, pattern any) *Database {
	return d.chain("AndLike", func(b *query.Builder) { b.AndLike(column, pattern) })
}

// OrLike is Like joined with OR.
func (d *Database) OrLike(column string, pattern any) *Database {
	return d.chain("OrLike", func(b *query.Builder) { b.OrLike(column, pattern) })
}

// Between appends an inclusive range predicate joined by connective.
func (d *Database) Between(column string, low, high any, connective query.Connective) *Database {
	return d.chain("Between", func(b *query.Builder) { b.Between(column, low, high, connective) })
}

// AndBetween is Between joined with AND.
func (d *Database) AndBetween(column string, low, high any) *Database {
	return d.chain("AndBetween", func(b *query.Builder) { b.AndBetween(column, low, high) })
}

// OrBetween is Between joined with OR.
func (d *Database) OrBetween(column string, low, high any) *Database {
	return d.chain("OrBetween", func(b *query.Builder) { b.OrBetween(column, low, high) })
}

// Asc orders by column ascending.
func (d *Database) Asc(column string) *Database {
	return d.chain("Asc", func(b *query.Builder) { b.Asc(column) })
}

// Desc orders by column descending.
func (d *Database) Desc(column string) *Database {
	return d.chain("Desc", func(b *query.Builder) { b.Desc(column) })
}

// Limit sets the row limit and optional offset. Without an offset any
// earlier offset is dropped.
func (d *Database) Limit(n int, offset ...int) *Database {
	return d.chain("Limit", func(b *query.Builder) { b.Limit(n, offset...) })
}
