package query

import "strings"

// Kind identifies the statement an Intent compiles to.
type Kind int

const (
	KindSelect Kind = iota
	KindInsert
	KindUpdate
	KindDelete
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Connective joins a predicate to the one before it.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// Valid reports whether c is AND or OR.
func (c Connective) Valid() bool {
	return c == And || c == Or
}

// Direction is the sort direction of an Order.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// PredicateKind distinguishes the predicate variants of a WHERE tree.
type PredicateKind int

const (
	PredicateCompare PredicateKind = iota
	PredicateLike
	PredicateBetween
	PredicateGroup
)

// Predicate is one node of the WHERE tree.
//
// Compare nodes use Column, Operator and Value. Like nodes use Column and Value.
// Between nodes use Column, Low and High. Group nodes hold a parenthesised
// sub-tree in Group.
type Predicate struct {
	Kind       PredicateKind
	Connective Connective
	Column     string
	Operator   string
	Value      any
	Low        any
	High       any
	Group      []Predicate
}

// Order is a single ORDER BY term.
type Order struct {
	Column    string
	Direction Direction
}

// Intent is the accumulated, not yet compiled, description of one statement.
// A Limit of zero means no limit; an Offset of zero means no offset.
type Intent struct {
	Kind      Kind
	Table     string
	Columns   []string
	Values    map[string]any
	Where     []Predicate
	Orders    []Order
	Limit     int
	Offset    int
	RawSQL    string
	RawParams []any
}

// ReturnsRows reports whether running the intent yields a result set.
func (i Intent) ReturnsRows() bool {
	switch i.Kind {
	case KindSelect:
		return true
	case KindRaw:
		return rawReturnsRows(i.RawSQL)
	default:
		return false
	}
}

var rowKeywords = map[string]struct{}{
	"SELECT":   {},
	"WITH":     {},
	"SHOW":     {},
	"PRAGMA":   {},
	"EXPLAIN":  {},
	"DESCRIBE": {},
	"DESC":     {},
	"VALUES":   {},
	"TABLE":    {},
}

// LeadingKeyword returns the upper-cased first keyword of sql, skipping
// leading "--" and "/* */" comments and opening parentheses.
func LeadingKeyword(sql string) string {
	fields := strings.Fields(stripLeadingComments(sql))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func stripLeadingComments(sql string) string {
	for {
		sql = strings.TrimLeft(sql, "( \t\r\n")
		switch {
		case strings.HasPrefix(sql, "--"):
			end := strings.IndexByte(sql, '\n')
			if end < 0 {
				return ""
			}
			sql = sql[end+1:]
		case strings.HasPrefix(sql, "/*"):
			end := strings.Index(sql[2:], "*/")
			if end < 0 {
				return ""
			}
			sql = sql[end+4:]
		default:
			return sql
		}
	}
}

func rawReturnsRows(sql string) bool {
	fields := strings.Fields(stripLeadingComments(sql))
	if len(fields) == 0 {
		return false
	}
	if _, ok := rowKeywords[strings.ToUpper(fields[0])]; ok {
		return true
	}
	for _, f := range fields[1:] {
		if strings.EqualFold(f, "RETURNING") {
			return true
		}
	}
	return false
}

// Row is a single result row keyed by column name.
type Row map[string]any

// Grammar compiles an Intent into dialect-specific SQL and its ordered
// parameter list. Implementations may keep compilation state between calls;
// Clear resets it.
type Grammar interface {
	Compile(intent Intent) (string, []any, error)
	Clear()
}
