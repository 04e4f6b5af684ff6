package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// MaxPageSize bounds Paginate.
const MaxPageSize = 1000

// Transaction executes fn within a database transaction. The transaction is
// rolled back when fn returns an error.
func Transaction(db *DB, ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}
	return db.RunInTx(ctx, nil, fn)
}

// Pagination represents pagination parameters
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate counts every match, then fetches one window of the ordered query.
func Paginate[T any](q *QueryBuilder[T], ctx context.Context, page, pageSize int) (*PaginationResult[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	pageSize = min(pageSize, MaxPageSize)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	// Past the last page there is nothing to fetch. Checking the page count
	// first keeps (page-1)*pageSize from overflowing.
	data := []T{}
	if page-1 < (total+pageSize-1)/pageSize {
		data, err = q.Limit(pageSize).Offset((page - 1) * pageSize).All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get paginated data: %w", err)
		}
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}, nil
}

// FindByID is a helper to find a record by ID
func FindByID[T any](db *DB, ctx context.Context, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// UpdateByID applies values to one row and returns it, or nil when no row
// has that id.
func UpdateByID[T any](db *DB, ctx context.Context, id any, values map[string]any) (*T, error) {
	rows, err := Query[T](db).Where("id", id).UpdateReturning(ctx, values)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](db *DB, ctx context.Context, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}

// Upsert performs an INSERT ... ON CONFLICT DO UPDATE on idb, which may be
// the database or an open transaction.
func Upsert[T any](ctx context.Context, idb bun.IDB, data *T, conflictColumn string, updateColumns ...string) error {
	start := time.Now()

	query := idb.NewInsert().Model(data)
	if len(updateColumns) == 0 {
		query = query.On(fmt.Sprintf("CONFLICT (%s) DO NOTHING", conflictColumn))
	} else {
		query = query.On(fmt.Sprintf("CONFLICT (%s) DO UPDATE", conflictColumn))
		for _, col := range updateColumns {
			query = query.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
		}
	}

	if _, err := query.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute upsert: %w (took %v)", err, time.Since(start))
	}
	return nil
}
