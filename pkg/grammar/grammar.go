package grammar

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

var (
	// ErrUnknownDialect is returned by New for names without a grammar.
	ErrUnknownDialect = errors.New("grammar: unknown dialect")

	// ErrUnsupportedValue is returned when a predicate value cannot be bound,
	// for example a non-slice value for IN.
	ErrUnsupportedValue = errors.New("grammar: unsupported value")
)

// dialect captures everything that differs between SQL flavours here.
type dialect struct {
	name string

	// quote wraps identifiers; embedded quote characters are doubled.
	quote string

	// numbered placeholders ($1, $2, ...) instead of '?'.
	numbered bool

	// unboundedLimit is written before OFFSET when no LIMIT was requested;
	// empty means OFFSET may stand alone.
	unboundedLimit string
}

// Grammar compiles query intent for one dialect. Bindings and the placeholder
// counter accumulate while compiling and are reset by Clear.
//
// A Grammar is not safe for concurrent use.
type Grammar struct {
	dialect  dialect
	bindings []any
}

// MySQL returns a grammar using backtick quoting and '?' placeholders.
func MySQL() *Grammar {
	return &Grammar{dialect: dialect{
		name:           "mysql",
		quote:          "`",
		unboundedLimit: "18446744073709551615",
	}}
}

// Postgres returns a grammar using double-quote quoting and $n placeholders.
func Postgres() *Grammar {
	return &Grammar{dialect: dialect{
		name:     "postgres",
		quote:    `"`,
		numbered: true,
	}}
}

// SQLite returns a grammar using double-quote quoting and '?' placeholders.
func SQLite() *Grammar {
	return &Grammar{dialect: dialect{
		name:           "sqlite",
		quote:          `"`,
		unboundedLimit: "-1",
	}}
}

// New resolves a grammar by dialect name.
func New(name string) (*Grammar, error) {
	switch name {
	case "mysql", "mariadb":
		return MySQL(), nil
	case "postgres", "pgsql":
		return Postgres(), nil
	case "sqlite", "sqlite3":
		return SQLite(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// Name returns the dialect name.
func (g *Grammar) Name() string {
	return g.dialect.name
}

// Clear drops the bindings collected by previous compilations.
func (g *Grammar) Clear() {
	g.bindings = nil
}

// Bindings returns the parameters collected since the last Clear.
func (g *Grammar) Bindings() []any {
	return append([]any(nil), g.bindings...)
}

// Compile renders intent as SQL text plus its ordered parameters.
func (g *Grammar) Compile(intent query.Intent) (string, []any, error) {
	start := len(g.bindings)

	var (
		sqlText string
		err     error
	)
	switch intent.Kind {
	case query.KindSelect:
		sqlText, err = g.compileSelect(intent)
	case query.KindInsert:
		sqlText, err = g.compileInsert(intent)
	case query.KindUpdate:
		sqlText, err = g.compileUpdate(intent)
	case query.KindDelete:
		sqlText, err = g.compileDelete(intent)
	case query.KindRaw:
		g.bindings = append(g.bindings, intent.RawParams...)
		sqlText = intent.RawSQL
	default:
		err = fmt.Errorf("grammar: unknown statement kind %d", intent.Kind)
	}
	if err != nil {
		g.bindings = g.bindings[:start]
		return "", nil, err
	}

	params := append([]any{}, g.bindings[start:]...)
	return sqlText, params, nil
}

func (g *Grammar) compileSelect(in query.Intent) (string, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(in.Columns) == 0 {
		sb.WriteString("*")
	} else {
		cols := make([]string, len(in.Columns))
		for i, c := range in.Columns {
			cols[i] = g.Wrap(c)
		}
		sb.WriteString(strings.Join(cols, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(g.Wrap(in.Table))

	if err := g.writeWhere(&sb, in.Where); err != nil {
		return "", err
	}

	if len(in.Orders) > 0 {
		terms := make([]string, len(in.Orders))
		for i, o := range in.Orders {
			dir := o.Direction
			if dir != query.Desc {
				dir = query.Asc
			}
			terms[i] = g.Wrap(o.Column) + " " + string(dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}

	switch {
	case in.Limit > 0:
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(in.Limit))
	case in.Offset > 0 && g.dialect.unboundedLimit != "":
		sb.WriteString(" LIMIT ")
		sb.WriteString(g.dialect.unboundedLimit)
	}
	if in.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(in.Offset))
	}

	return sb.String(), nil
}

func (g *Grammar) compileInsert(in query.Intent) (string, error) {
	columns := sortedColumns(in.Values)
	wrapped := make([]string, len(columns))
	holders := make([]string, len(columns))
	for i, c := range columns {
		wrapped[i] = g.Wrap(c)
		holders[i] = g.bind(in.Values[c])
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		g.Wrap(in.Table),
		strings.Join(wrapped, ", "),
		strings.Join(holders, ", "),
	), nil
}

func (g *Grammar) compileUpdate(in query.Intent) (string, error) {
	columns := sortedColumns(in.Values)
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = g.Wrap(c) + " = " + g.bind(in.Values[c])
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(g.Wrap(in.Table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ", "))
	if err := g.writeWhere(&sb, in.Where); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Grammar) compileDelete(in query.Intent) (string, error) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(g.Wrap(in.Table))
	if err := g.writeWhere(&sb, in.Where); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Grammar) writeWhere(sb *strings.Builder, preds []query.Predicate) error {
	if len(preds) == 0 {
		return nil
	}
	clause, err := g.compilePredicates(preds)
	if err != nil {
		return err
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(clause)
	return nil
}

func (g *Grammar) compilePredicates(preds []query.Predicate) (string, error) {
	var sb strings.Builder
	for i, p := range preds {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(string(p.Connective))
			sb.WriteString(" ")
		}
		part, err := g.compilePredicate(p)
		if err != nil {
			return "", err
		}
		sb.WriteString(part)
	}
	return sb.String(), nil
}

func (g *Grammar) compilePredicate(p query.Predicate) (string, error) {
	switch p.Kind {
	case query.PredicateGroup:
		inner, err := g.compilePredicates(p.Group)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case query.PredicateLike:
		return g.Wrap(p.Column) + " LIKE " + g.bind(p.Value), nil
	case query.PredicateBetween:
		low := g.bind(p.Low)
		high := g.bind(p.High)
		return g.Wrap(p.Column) + " BETWEEN " + low + " AND " + high, nil
	default:
		return g.compileCompare(p)
	}
}

func (g *Grammar) compileCompare(p query.Predicate) (string, error) {
	op := query.NormalizeOperator(p.Operator)
	column := g.Wrap(p.Column)

	switch op {
	case "IN", "NOT IN":
		values, ok := sliceValues(p.Value)
		if !ok {
			return "", fmt.Errorf("%w: %s expects a slice, got %T", ErrUnsupportedValue, op, p.Value)
		}
		if len(values) == 0 {
			// An empty set matches nothing for IN and everything for NOT IN.
			if op == "IN" {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
		holders := make([]string, len(values))
		for i, v := range values {
			holders[i] = g.bind(v)
		}
		return column + " " + op + " (" + strings.Join(holders, ", ") + ")", nil
	case "IS", "IS NOT":
		if p.Value == nil {
			return column + " " + op + " NULL", nil
		}
	}

	return column + " " + op + " " + g.bind(p.Value), nil
}

// Wrap quotes an identifier, handling dotted names, '*' and expressions.
func (g *Grammar) Wrap(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "*" || strings.ContainsAny(identifier, "() ") {
		return identifier
	}

	parts := strings.Split(identifier, ".")
	q := g.dialect.quote
	for i, part := range parts {
		if part == "*" {
			continue
		}
		parts[i] = q + strings.ReplaceAll(part, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

func (g *Grammar) bind(v any) string {
	g.bindings = append(g.bindings, v)
	if g.dialect.numbered {
		return "$" + strconv.Itoa(len(g.bindings))
	}
	return "?"
}

func sortedColumns(values map[string]any) []string {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}

func sliceValues(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if vs, ok := v.([]any); ok {
		return vs, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is a scalar as far as SQL is concerned.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
