// Package querybuilder renders the small set of PostgreSQL statements the
// ledger repositories need, with positional ($n) placeholders.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("querybuilder: table is required")
	errNoColumns = errors.New("querybuilder: columns are required")
	errNoSets    = errors.New("querybuilder: at least one SET is required")
)

// binder accumulates SQL text and the matching argument list.
type binder struct {
	sql  strings.Builder
	args []any
}

func (b *binder) write(parts ...string) {
	for _, p := range parts {
		b.sql.WriteString(p)
	}
}

func (b *binder) bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *binder) where(conds []Condition) {
	first := true
	for _, c := range conds {
		if c == nil {
			continue
		}
		if first {
			b.write(" WHERE ")
			first = false
		} else {
			b.write(" AND ")
		}
		c.render(b)
	}
}

func (b *binder) result() (string, []any, error) {
	return b.sql.String(), b.args, nil
}

// Condition is one predicate of a WHERE clause. Conditions are ANDed.
type Condition interface {
	render(b *binder)
}

type comparison struct {
	column string
	op     string
	value  any
}

func (c comparison) render(b *binder) {
	b.write(c.column, " ", c.op, " ", b.bind(c.value))
}

// Eq renders column = value.
func Eq(column string, value any) Condition {
	return comparison{column: column, op: "=", value: value}
}

// Ne renders column <> value.
func Ne(column string, value any) Condition {
	return comparison{column: column, op: "<>", value: value}
}

type membership struct {
	column string
	values []any
}

// In renders column IN (...). An empty set matches nothing.
func In(column string, values []any) Condition {
	return membership{column: column, values: values}
}

func (c membership) render(b *binder) {
	if len(c.values) == 0 {
		b.write("FALSE")
		return
	}
	marks := make([]string, len(c.values))
	for i, v := range c.values {
		marks[i] = b.bind(v)
	}
	b.write(c.column, " IN (", strings.Join(marks, ", "), ")")
}

// Optional returns cond only when enabled; nil conditions are skipped.
func Optional(enabled bool, cond Condition) Condition {
	if !enabled {
		return nil
	}
	return cond
}

type SelectBuilder struct {
	table   string
	columns []string
	conds   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

func (s *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	s.conds = append(s.conds, conds...)
	return s
}

func (s *SelectBuilder) GroupBy(columns ...string) *SelectBuilder {
	s.groupBy = append(s.groupBy, columns...)
	return s
}

func (s *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, terms...)
	return s
}

// Limit caps the row count; zero or less means unbounded.
func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	s.limit = n
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(s.table) == "" {
		return "", nil, errNoTable
	}
	if len(s.columns) == 0 {
		return "", nil, errNoColumns
	}

	var b binder
	b.write("SELECT ", strings.Join(s.columns, ", "), " FROM ", s.table)
	b.where(s.conds)
	if len(s.groupBy) > 0 {
		b.write(" GROUP BY ", strings.Join(s.groupBy, ", "))
	}
	if len(s.orderBy) > 0 {
		b.write(" ORDER BY ", strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		b.write(" LIMIT ", strconv.Itoa(s.limit))
	}
	return b.result()
}

type assignment struct {
	column string
	value  any
	raw    string
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	conds []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, value: value})
	return u
}

// SetExpr assigns a literal SQL expression such as NOW().
func (u *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, raw: expr})
	return u
}

func (u *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	u.conds = append(u.conds, conds...)
	return u
}

func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(u.table) == "" {
		return "", nil, errNoTable
	}
	if len(u.sets) == 0 {
		return "", nil, errNoSets
	}

	var b binder
	b.write("UPDATE ", u.table, " SET ")
	for i, a := range u.sets {
		if i > 0 {
			b.write(", ")
		}
		if a.raw != "" {
			b.write(a.column, " = ", a.raw)
			continue
		}
		b.write(a.column, " = ", b.bind(a.value))
	}
	b.where(u.conds)
	return b.result()
}
