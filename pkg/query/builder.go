package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

var operators = map[string]struct{}{
	"=":        {},
	"!=":       {},
	"<>":       {},
	"<":        {},
	"<=":       {},
	">":        {},
	">=":       {},
	"LIKE":     {},
	"NOT LIKE": {},
	"IN":       {},
	"NOT IN":   {},
	"IS":       {},
	"IS NOT":   {},
}

// NormalizeOperator upper-cases op and collapses inner whitespace.
func NormalizeOperator(op string) string {
	return strings.ToUpper(strings.Join(strings.Fields(op), " "))
}

// ValidOperator reports whether op is a supported comparison operator.
func ValidOperator(op string) bool {
	_, ok := operators[NormalizeOperator(op)]
	return ok
}

// Builder accumulates query intent through chained calls.
// Nothing is validated while accumulating; Build does all structural checks.
//
// A Builder is not safe for concurrent use.
//
// Example:
//
//	sqlText, params, err := query.New().
//	    SetTable("users").
//	    Select("id", "name").
//	    Where("age", ">", 18, query.And).
//	    OrLike("name", "jo%").
//	    Desc("created_at").
//	    Limit(10).
//	    Build(grammar.MySQL())
type Builder struct {
	intent Intent
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// SetTable sets the target table.
func (b *Builder) SetTable(name string) *Builder {
	b.intent.Table = name
	return b
}

// Select turns the intent into a SELECT of the given columns; no columns means all.
func (b *Builder) Select(columns ...string) *Builder {
	b.intent.Kind = KindSelect
	b.intent.Columns = slices.Clone(columns)
	return b
}

// Insert turns the intent into an INSERT of values.
func (b *Builder) Insert(values map[string]any) *Builder {
	b.intent.Kind = KindInsert
	b.intent.Values = maps.Clone(values)
	return b
}

// Update turns the intent into an UPDATE setting values.
func (b *Builder) Update(values map[string]any) *Builder {
	b.intent.Kind = KindUpdate
	b.intent.Values = maps.Clone(values)
	return b
}

// Delete turns the intent into a DELETE.
func (b *Builder) Delete() *Builder {
	b.intent.Kind = KindDelete
	return b
}

// SQL replaces the intent with raw SQL text and its parameters.
func (b *Builder) SQL(raw string, params ...any) *Builder {
	b.intent.Kind = KindRaw
	b.intent.RawSQL = raw
	b.intent.RawParams = slices.Clone(params)
	return b
}

// Where appends a comparison predicate joined by connective.
func (b *Builder) Where(column, operator string, value any, connective Connective) *Builder {
	b.intent.Where = append(b.intent.Where, Predicate{
		Kind:       PredicateCompare,
		Connective: connective,
		Column:     column,
		Operator:   operator,
		Value:      value,
	})
	return b
}

// AndWhere is Where joined with And.
func (b *Builder) AndWhere(column, operator string, value any) *Builder {
	return b.Where(column, operator, value, And)
}

// OrWhere is Where joined with Or.
func (b *Builder) OrWhere(column, operator string, value any) *Builder {
	return b.Where(column, operator, value, Or)
}

// WhereQ appends a parenthesised group built by fn, joined by connective.
func (b *Builder) WhereQ(fn func(q *Builder), connective Connective) *Builder {
	sub := New()
	if fn != nil {
		fn(sub)
	}
	b.intent.Where = append(b.intent.Where, Predicate{
		Kind:       PredicateGroup,
		Connective: connective,
		Group:      sub.intent.Where,
	})
	return b
}

// Like appends a LIKE predicate joined by connective.
func (b *Builder) Like(column string, pattern any, connective Connective) *Builder {
	b.intent.Where = append(b.intent.Where, Predicate{
		Kind:       PredicateLike,
		Connective: connective,
		Column:     column,
		Value:      pattern,
	})
	return b
}

// AndLike is Like joined with And.
func (b *Builder) AndLike(column string, pattern any) *Builder {
	return b.Like(column, pattern, And)
}

// OrLike is Like joined with Or.
func (b *Builder) OrLike(column string, pattern any) *Builder {
	return b.Like(column, pattern, Or)
}

// Between appends a BETWEEN low AND high predicate joined by connective.
func (b *Builder) Between(column string, low, high any, connective Connective) *Builder {
	b.intent.Where = append(b.intent.Where, Predicate{
		Kind:       PredicateBetween,
		Connective: connective,
		Column:     column,
		Low:        low,
		High:       high,
	})
	return b
}

// AndBetween is Between joined with And.
func (b *Builder) AndBetween(column string, low, high any) *Builder {
	return b.Between(column, low, high, And)
}

// OrBetween is Between joined with Or.
func (b *Builder) OrBetween(column string, low, high any) *Builder {
	return b.Between(column, low, high, Or)
}

// Asc appends an ascending order term.
func (b *Builder) Asc(column string) *Builder {
	b.intent.Orders = append(b.intent.Orders, Order{Column: column, Direction: Asc})
	return b
}

// Desc appends a descending order term.
func (b *Builder) Desc(column string) *Builder {
	b.intent.Orders = append(b.intent.Orders, Order{Column: column, Direction: Desc})
	return b
}

// Limit sets the row limit and, optionally, the offset. Calling Limit without
// an offset drops any offset set before.
func (b *Builder) Limit(n int, offset ...int) *Builder {
	b.intent.Limit = n
	b.intent.Offset = 0
	if len(offset) > 0 {
		b.intent.Offset = offset[0]
	}
	return b
}

// Intent returns a copy of the accumulated intent.
func (b *Builder) Intent() Intent {
	in := b.intent
	in.Columns = slices.Clone(in.Columns)
	in.Values = maps.Clone(in.Values)
	in.Where = clonePredicates(in.Where)
	in.Orders = slices.Clone(in.Orders)
	in.RawParams = slices.Clone(in.RawParams)
	return in
}

// IsEmpty reports whether nothing has been accumulated since the last Clear.
func (b *Builder) IsEmpty() bool {
	in := b.intent
	return in.Kind == KindSelect && in.Table == "" && len(in.Columns) == 0 &&
		len(in.Values) == 0 && len(in.Where) == 0 && len(in.Orders) == 0 &&
		in.Limit == 0 && in.Offset == 0 && in.RawSQL == "" && len(in.RawParams) == 0
}

// ReturnsRows reports whether the accumulated statement yields a result set.
func (b *Builder) ReturnsRows() bool {
	return b.intent.ReturnsRows()
}

// Kind returns the statement kind accumulated so far.
func (b *Builder) Kind() Kind {
	return b.intent.Kind
}

// Build validates the accumulated intent and compiles it with g.
func (b *Builder) Build(g Grammar) (string, []any, error) {
	if err := validate(b.intent); err != nil {
		return "", nil, err
	}
	return g.Compile(b.Intent())
}

// Clear resets the builder to its empty state.
func (b *Builder) Clear() {
	b.intent = Intent{}
}

func validate(in Intent) error {
	switch in.Kind {
	case KindRaw:
		if strings.TrimSpace(in.RawSQL) == "" {
			return ErrMissingSQL
		}
		return nil
	case KindInsert, KindUpdate:
		if len(in.Values) == 0 {
			return fmt.Errorf("%w: %s on %q", ErrEmptyValues, in.Kind, in.Table)
		}
	}

	if in.Table == "" {
		return fmt.Errorf("%w: %s statement", ErrMissingTable, in.Kind)
	}

	for _, o := range in.Orders {
		if o.Column == "" {
			return fmt.Errorf("%w: order term", ErrMissingColumn)
		}
	}

	return validatePredicates(in.Where)
}

func validatePredicates(preds []Predicate) error {
	for _, p := range preds {
		if !p.Connective.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidConnective, p.Connective)
		}
		switch p.Kind {
		case PredicateGroup:
			if len(p.Group) == 0 {
				return ErrEmptyGroup
			}
			if err := validatePredicates(p.Group); err != nil {
				return err
			}
		case PredicateCompare:
			if p.Column == "" {
				return fmt.Errorf("%w: %s predicate", ErrMissingColumn, p.Operator)
			}
			if !ValidOperator(p.Operator) {
				return fmt.Errorf("%w: %q", ErrInvalidOperator, p.Operator)
			}
		default:
			if p.Column == "" {
				return fmt.Errorf("%w: predicate", ErrMissingColumn)
			}
		}
	}
	return nil
}

func clonePredicates(preds []Predicate) []Predicate {
	if preds == nil {
		return nil
	}
	out := make([]Predicate, len(preds))
	for i, p := range preds {
		p.Group = clonePredicates(p.Group)
		out[i] = p
	}
	return out
}
