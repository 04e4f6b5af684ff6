package database

import (
	"context"
	"fmt"
	"storefront_server/catalog"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/google/uuid"
)

// ProductStore runs catalog queries in postgres. Filtering, ordering and
// the page window are pushed down to SQL and mirror catalog.Apply.
type ProductStore struct {
	db *DB
}

func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) FindProducts(ctx context.Context, q *catalog.Query) (*catalog.Page, error) {
	query := applyProductFilters(Query[tables.Product](s.db), &q.Filter, q.IsAdmin)
	query = applyProductSort(query, q.Sort)

	result, err := Paginate(query, ctx, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &catalog.Page{Items: result.Data, Total: result.Pagination.Total}, nil
}

func applyProductFilters(query *QueryBuilder[tables.Product], f *catalog.Filter, isAdmin bool) *QueryBuilder[tables.Product] {
	if !isAdmin {
		query = query.Where("is_active", true)
	} else if f.IsActive != nil {
		query = query.Where("is_active", *f.IsActive)
	}

	if f.Search != "" {
		if f.SearchDescription {
			query = query.Or().
				WhereContains("name", f.Search).
				WhereContains("description", f.Search).
				End()
		} else {
			query = query.WhereContains("name", f.Search)
		}
	}
	if f.Category != nil {
		query = query.Where("category", string(*f.Category))
	}
	if f.ProductType != "" {
		query = query.Where("product_type", f.ProductType)
	}
	if f.IsHot != nil {
		query = query.Where("is_hot", *f.IsHot)
	}
	if f.IsFlashSale != nil {
		query = query.WhereRaw("COALESCE(is_flash_sale, FALSE) = ?", *f.IsFlashSale)
	}
	if f.MinPrice != nil {
		query = query.WhereOp("price", ">=", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.WhereOp("price", "<=", *f.MaxPrice)
	}
	if f.OnSale {
		query = query.WhereRaw("original_price IS NOT NULL AND original_price > price")
	}

	return query
}

// applyProductSort orders by the requested key, then by recency, then by id
// so pages never overlap.
func applyProductSort(query *QueryBuilder[tables.Product], key structs.SortKey) *QueryBuilder[tables.Product] {
	switch key {
	case structs.SortPriceAsc:
		query = query.OrderBy("price", ASC)
	case structs.SortPriceDesc:
		query = query.OrderBy("price", DESC)
	case structs.SortSales:
		query = query.OrderBy("is_hot", DESC)
	}
	return query.OrderBy("created_at", DESC).OrderBy("id", ASC)
}

// FindProductByID returns nil when no product has the id. Ids that are not
// UUIDs cannot exist and are answered without a query.
func (s *ProductStore) FindProductByID(ctx context.Context, id string) (*tables.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	product, err := FindByID[tables.Product](s.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *ProductStore) ProductTypes(ctx context.Context, activeOnly bool) ([]string, error) {
	query := Query[tables.Product](s.db).
		Distinct().
		Select("product_type").
		WhereNotNull("product_type").
		WhereOp("product_type", "<>", "").
		OrderBy("product_type", ASC)
	if activeOnly {
		query = query.Where("is_active", true)
	}

	types := []string{}
	if err := query.Scan(ctx, &types); err != nil {
		return nil, fmt.Errorf("failed to list product types: %w", err)
	}
	return types, nil
}

func (s *ProductStore) InsertProduct(ctx context.Context, fields map[string]any) (*tables.Product, error) {
	product, err := Query[tables.Product](s.db).InsertValues(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return product, nil
}

// UpdateProduct returns nil when no product has the id.
func (s *ProductStore) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*tables.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	product, err := UpdateByID[tables.Product](s.db, ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *ProductStore) DeleteProduct(ctx context.Context, id string) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}
	n, err := DeleteByID[tables.Product](s.db, ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product: %w", err)
	}
	return n, nil
}
