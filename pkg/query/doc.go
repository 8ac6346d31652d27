// Package query accumulates SQL query intent and hands it to a dialect
// Grammar for compilation.
//
// A Builder records the table, statement kind, columns and values, a WHERE
// tree of comparison, LIKE, BETWEEN and grouped predicates, ordering and
// limit/offset. Nothing is checked while accumulating: Build validates the
// intent and asks the Grammar for the SQL text and its ordered parameters.
//
// Basic Usage:
//
//	b := query.New().
//	    SetTable("users").
//	    Select("id", "email").
//	    AndWhere("status", "=", "active").
//	    WhereQ(func(q *query.Builder) {
//	        q.AndLike("email", "%@example.com").OrBetween("age", 18, 30)
//	    }, query.And).
//	    Desc("id").
//	    Limit(20)
//
//	sqlText, params, err := b.Build(grammar.MySQL())
//
// The package also defines Row, the map form of a fetched result row.
package query
