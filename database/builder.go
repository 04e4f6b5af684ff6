package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building bun queries
// against the table of model T.
type QueryBuilder[T any] struct {
	db        *DB
	tableName string

	selectCols  []string
	wheres      []*WhereClause
	whereGroups []*WhereGroup
	orders      []*OrderClause
	limitVal    *int
	offsetVal   *int
	distinct    bool

	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// WhereGroup is a parenthesised set of conditions joined by one connector.
type WhereGroup struct {
	Conditions []*WhereClause
	Connector  string // "AND" or "OR"
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// WhereGroupBuilder provides a fluent API for building grouped WHERE clauses
type WhereGroupBuilder[T any] struct {
	parent *QueryBuilder[T]
	group  *WhereGroup
}

// Query creates a new QueryBuilder instance
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Table overrides the table name taken from the model.
func (q *QueryBuilder[T]) Table(name string) *QueryBuilder[T] {
	q.tableName = name
	return q
}

func (q *QueryBuilder[T]) Select(columns ...string) *QueryBuilder[T] {
	q.selectCols = append(q.selectCols, columns...)
	return q
}

func (q *QueryBuilder[T]) Distinct() *QueryBuilder[T] {
	q.distinct = true
	return q
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: operator, Value: value})
	return q
}

func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IN", Value: values})
	return q
}

func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IS NULL"})
	return q
}

func (q *QueryBuilder[T]) WhereNotNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Column: column, Operator: "IS NOT NULL"})
	return q
}

// WhereContains is a case-insensitive substring match. LIKE wildcards in
// the needle are matched literally.
func (q *QueryBuilder[T]) WhereContains(column, needle string) *QueryBuilder[T] {
	return q.WhereOp(column, "ILIKE", ContainsPattern(needle))
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{IsRaw: true, RawSQL: sql, RawArgs: args})
	return q
}

// WhereGroup starts building a grouped WHERE clause
func (q *QueryBuilder[T]) WhereGroup(connector string) *WhereGroupBuilder[T] {
	return &WhereGroupBuilder[T]{parent: q, group: &WhereGroup{Connector: connector}}
}

// Or starts an OR group
func (q *QueryBuilder[T]) Or() *WhereGroupBuilder[T] {
	return q.WhereGroup("OR")
}

func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{Column: column, Direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (w *WhereGroupBuilder[T]) Where(column string, value any) *WhereGroupBuilder[T] {
	return w.WhereOp(column, "=", value)
}

func (w *WhereGroupBuilder[T]) WhereOp(column, operator string, value any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{Column: column, Operator: operator, Value: value})
	return w
}

func (w *WhereGroupBuilder[T]) WhereContains(column, needle string) *WhereGroupBuilder[T] {
	return w.WhereOp(column, "ILIKE", ContainsPattern(needle))
}

func (w *WhereGroupBuilder[T]) WhereRaw(sql string, args ...any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{IsRaw: true, RawSQL: sql, RawArgs: args})
	return w
}

// End completes the group builder and returns to the query builder
func (w *WhereGroupBuilder[T]) End() *QueryBuilder[T] {
	w.parent.whereGroups = append(w.parent.whereGroups, w.group)
	return w.parent
}

// ContainsPattern escapes LIKE wildcards and wraps s in %...%.
func ContainsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// toSQL renders a condition with bun placeholders.
func (w *WhereClause) toSQL() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}
	switch w.Operator {
	case "IS NULL", "IS NOT NULL":
		return "? " + w.Operator, []any{bun.Ident(w.Column)}
	case "IN":
		return "? IN (?)", []any{bun.Ident(w.Column), bun.In(w.Value)}
	default:
		return fmt.Sprintf("? %s ?", w.Operator), []any{bun.Ident(w.Column), w.Value}
	}
}

// applyWheres applies the WHERE conditions to any bun query.
func (q *QueryBuilder[T]) applyWheres(qb bun.QueryBuilder) bun.QueryBuilder {
	for _, where := range q.wheres {
		sql, args := where.toSQL()
		qb = qb.Where(sql, args...)
	}

	for _, group := range q.whereGroups {
		if len(group.Conditions) == 0 {
			continue
		}
		parts := make([]string, 0, len(group.Conditions))
		var args []any
		for _, cond := range group.Conditions {
			sql, condArgs := cond.toSQL()
			parts = append(parts, sql)
			args = append(args, condArgs...)
		}
		qb = qb.Where("("+strings.Join(parts, " "+group.Connector+" ")+")", args...)
	}

	return qb
}

// buildSelect assembles a SELECT for model, which is either a destination
// pointer or a typed nil used only to name the table.
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}
	if q.distinct {
		query = query.Distinct()
	}
	if len(q.selectCols) > 0 {
		query = query.Column(q.selectCols...)
	}

	query = query.ApplyQueryBuilder(q.applyWheres)

	for _, order := range q.orders {
		query = query.OrderExpr("? "+string(order.Direction), bun.Ident(order.Column))
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}
