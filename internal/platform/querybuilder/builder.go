package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder selects how bind parameters are rendered.
type Placeholder int

const (
	// Dollar renders $1, $2, ... (postgres).
	Dollar Placeholder = iota
	// Question renders ? (sqlite).
	Question
)

type state struct {
	buf    strings.Builder
	args   []any
	format Placeholder
}

func (s *state) bind(value any) {
	s.args = append(s.args, value)
	if s.format == Question {
		s.buf.WriteByte('?')
		return
	}
	s.buf.WriteByte('$')
	s.buf.WriteString(strconv.Itoa(len(s.args)))
}

// expr writes raw SQL, binding each '?' in order to exprArgs.
func (s *state) expr(sql string, exprArgs []any) {
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' && next < len(exprArgs) {
			s.bind(exprArgs[next])
			next++
			continue
		}
		s.buf.WriteByte(sql[i])
	}
}

type Condition interface {
	appendSQL(s *state)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(s *state) {
	s.buf.WriteString(c.column)
	s.buf.WriteString(" = ")
	s.bind(c.value)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values ...any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) appendSQL(s *state) {
	if len(c.values) == 0 {
		s.buf.WriteString("1=0")
		return
	}

	s.buf.WriteString(c.column)
	s.buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			s.buf.WriteString(", ")
		}
		s.bind(v)
	}
	s.buf.WriteString(")")
}

type exprCondition struct {
	sql  string
	args []any
}

func Expr(sql string, args ...any) Condition {
	return exprCondition{sql: sql, args: args}
}

func (c exprCondition) appendSQL(s *state) {
	s.expr(c.sql, c.args)
}

type SelectBuilder struct {
	format  Placeholder
	columns []string
	table   string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) PlaceholderFormat(format Placeholder) *SelectBuilder {
	b.format = format
	return b
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(columns ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, columns...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	s := &state{format: b.format}
	s.buf.WriteString("SELECT ")
	s.buf.WriteString(strings.Join(b.columns, ", "))
	s.buf.WriteString(" FROM ")
	s.buf.WriteString(b.table)
	appendWhere(s, b.where)
	if len(b.groupBy) > 0 {
		s.buf.WriteString(" GROUP BY ")
		s.buf.WriteString(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		s.buf.WriteString(" ORDER BY ")
		s.buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.buf.WriteString(" LIMIT ")
		s.buf.WriteString(strconv.Itoa(b.limit))
	}

	return s.buf.String(), s.args, nil
}

type InsertBuilder struct {
	format  Placeholder
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) PlaceholderFormat(format Placeholder) *InsertBuilder {
	b.format = format
	return b
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	s := &state{format: b.format}
	s.args = make([]any, 0, len(b.rows)*len(b.columns))
	s.buf.WriteString("INSERT INTO ")
	s.buf.WriteString(b.table)
	s.buf.WriteString(" (")
	s.buf.WriteString(strings.Join(b.columns, ", "))
	s.buf.WriteString(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			s.buf.WriteString(", ")
		}
		s.buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				s.buf.WriteString(", ")
			}
			s.bind(value)
		}
		s.buf.WriteString(")")
	}

	if b.suffix != "" {
		s.buf.WriteString(" ")
		s.buf.WriteString(b.suffix)
	}

	return s.buf.String(), s.args, nil
}

type DeleteBuilder struct {
	format Placeholder
	table  string
	where  []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) PlaceholderFormat(format Placeholder) *DeleteBuilder {
	b.format = format
	return b
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete without conditions is not allowed")
	}

	s := &state{format: b.format}
	s.buf.WriteString("DELETE FROM ")
	s.buf.WriteString(b.table)
	appendWhere(s, b.where)
	return s.buf.String(), s.args, nil
}

func appendWhere(s *state, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	s.buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			s.buf.WriteString(" AND ")
		}
		c.appendSQL(s)
	}
}
