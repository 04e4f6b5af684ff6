package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/uptrace/bun"
)

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	err := WithRetry(ctx, func() error {
		data = nil // Reset on retry
		return q.buildSelect(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First returns the first matching record, or nil when there is none.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data T
	err := WithRetry(ctx, func() error {
		return q.buildSelect(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Scan runs the query and scans the selected columns into dest.
func (q *QueryBuilder[T]) Scan(ctx context.Context, dest ...any) error {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		return q.buildSelect((*T)(nil)).Scan(ctx, dest...)
	})
	if err != nil {
		return fmt.Errorf("failed to execute scan query: %w (took %v)", err, time.Since(start))
	}
	return nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var count int
	err := WithRetry(ctx, func() error {
		var err error
		count, err = q.buildSelect((*T)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertValues inserts one row from a column/value map and returns the
// stored row, database defaults included.
//
// Writes run exactly once. A dropped connection may already have committed
// the statement, so the error goes back to the caller untouched.
func (q *QueryBuilder[T]) InsertValues(ctx context.Context, values map[string]any) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var row T
	_, err := q.db.NewInsert().
		Model(&values).
		TableExpr(q.table()).
		Returning("*").
		Exec(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return &row, nil
}

// Update applies a column/value map to every matching row.
func (q *QueryBuilder[T]) Update(ctx context.Context, values map[string]any) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.buildUpdate(values).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}
	rowsAffected, _ := res.RowsAffected()

	return int(rowsAffected), nil
}

// UpdateReturning updates records and returns them.
func (q *QueryBuilder[T]) UpdateReturning(ctx context.Context, values map[string]any) ([]T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var results []T
	if _, err := q.buildUpdate(values).Returning("*").Exec(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return results, nil
}

// Delete deletes records matching the query.
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var model T
	query := q.db.NewDelete().Model(&model)
	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}
	res, err := query.ApplyQueryBuilder(q.applyWheres).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}
	rowsAffected, _ := res.RowsAffected()

	return int(rowsAffected), nil
}

func (q *QueryBuilder[T]) buildUpdate(values map[string]any) *bun.UpdateQuery {
	var model T
	query := q.db.NewUpdate().Model(&model)
	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}
	for key, value := range values {
		query = query.Set("? = ?", bun.Ident(key), value)
	}
	return query.ApplyQueryBuilder(q.applyWheres)
}

// table returns the quoted table name of T unless overridden.
func (q *QueryBuilder[T]) table() string {
	if q.tableName != "" {
		return q.tableName
	}
	return string(q.db.Table(reflect.TypeFor[T]()).SQLName)
}
