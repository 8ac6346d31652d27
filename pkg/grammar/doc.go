// Package grammar compiles query.Intent values into dialect-specific SQL.
//
// Three dialects are provided: MySQL (backtick identifiers, '?' placeholders),
// Postgres (double-quoted identifiers, $n placeholders) and SQLite
// (double-quoted identifiers, '?' placeholders). Insert and update columns are
// emitted in sorted order so the generated SQL is deterministic.
//
// A Grammar is stateful: parameters collected by Compile accumulate, and with
// them the $n numbering, until Clear is called. Callers compiling one
// statement per cycle clear the grammar between cycles.
package grammar
