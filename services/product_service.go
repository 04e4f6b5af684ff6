package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"storefront_server/catalog"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// ProductStore is the backing store of the catalog. Find and update return
// nil, nil when the id does not exist.
type ProductStore interface {
	FindProducts(ctx context.Context, q *catalog.Query) (*catalog.Page, error)
	FindProductByID(ctx context.Context, id string) (*tables.Product, error)
	ProductTypes(ctx context.Context, activeOnly bool) ([]string, error)
	InsertProduct(ctx context.Context, fields map[string]any) (*tables.Product, error)
	UpdateProduct(ctx context.Context, id string, fields map[string]any) (*tables.Product, error)
	DeleteProduct(ctx context.Context, id string) (int, error)
}

type ProductService struct {
	logger       *gecho.Logger
	store        ProductStore
	cacheService *CacheService
	config       *structs.CatalogConfig
	fallback     []tables.Product

	// generation advances on every write and is part of every cache key,
	// so a write is visible to the next read before invalidation runs.
	generation catalog.Sequencer
}

func NewProductService(logger *gecho.Logger, store ProductStore, cacheService *CacheService, cfg *structs.CatalogConfig) *ProductService {
	if cfg == nil {
		cfg = &structs.CatalogConfig{}
	}
	return &ProductService{
		logger:       logger,
		store:        store,
		cacheService: cacheService,
		config:       cfg,
		fallback:     catalog.FallbackProducts(),
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	IsAdmin bool            `json:"-"`
	Filter  catalog.Filter  `json:"filter"`
	SortBy  structs.SortKey `json:"sort_by"`
	// Seq is echoed back so callers can drop responses that arrive out of order.
	Seq uint64 `json:"seq,omitempty"`
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []tables.Product   `json:"products"`
	Pagination catalog.Pagination `json:"pagination"`
	Seq        uint64             `json:"seq,omitempty"`
	// Degraded is set when the store failed and the fallback catalog answered.
	Degraded  bool          `json:"degraded"`
	QueryTime time.Duration `json:"query_time"`
}

// ListProducts filters, sorts and pages the catalog. It never fails: when
// the store errors the same query runs over the fallback catalog and the
// result is marked degraded.
func (ps *ProductService) ListProducts(ctx context.Context, opts *ProductListOptions) *ProductListResult {
	startTime := time.Now()
	if opts == nil {
		opts = &ProductListOptions{}
	}

	q := &catalog.Query{
		Filter:  opts.Filter,
		IsAdmin: opts.IsAdmin,
		Sort:    opts.SortBy,
		Page:    opts.Page,
		Limit:   opts.Limit,
	}
	q.Normalize(ps.config.DefaultPageSize, ps.config.MaxPageSize)

	page, degraded := ps.findProducts(ctx, q)

	ps.logger.Debug("Products listed",
		gecho.Field("count", len(page.Items)),
		gecho.Field("total", page.Total),
		gecho.Field("degraded", degraded),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &ProductListResult{
		Products:   page.Items,
		Pagination: catalog.NewPagination(q.Page, q.Limit, page.Total),
		Seq:        opts.Seq,
		Degraded:   degraded,
		QueryTime:  time.Since(startTime),
	}
}

func (ps *ProductService) findProducts(ctx context.Context, q *catalog.Query) (*catalog.Page, bool) {
	// Admin listings always read through to the store.
	var key string
	if !q.IsAdmin {
		key = ProductListKey(ps.generation.Current(), q)
		cached, err := ps.cacheService.GetProductList(key)
		if err != nil {
			ps.logger.Warn("Failed to get product list from cache", gecho.Field("error", err))
		} else if cached != nil {
			return cached, false
		}
	}

	page, err := ps.store.FindProducts(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return &catalog.Page{Items: []tables.Product{}}, true
		}
		ps.logger.Warn("Product store unavailable, serving fallback catalog", gecho.Field("error", err))
		CatalogFallbackTotal.WithLabelValues("list").Inc()
		return catalog.Apply(ps.fallback, q), true
	}
	if page.Items == nil {
		page.Items = []tables.Product{}
	}

	if key != "" {
		go func() {
			if err := ps.cacheService.SetProductList(key, page); err != nil {
				ps.logger.Warn("Failed to cache product list", gecho.Field("error", err))
			}
		}()
	}
	return page, false
}

// GetProductByID returns lib.ErrNotFound when the product does not exist or
// is inactive and the caller is not an admin.
func (ps *ProductService) GetProductByID(ctx context.Context, id string, isAdmin bool) (*tables.Product, error) {
	generation := ps.generation.Current()
	product, err := ps.cacheService.GetProduct(generation, id)
	if err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
	}

	if product == nil {
		product, err = ps.store.FindProductByID(ctx, id)
		if err != nil {
			ps.logger.Warn("Product store unavailable, looking up fallback catalog", gecho.Field("error", err), gecho.Field("id", id))
			CatalogFallbackTotal.WithLabelValues("get").Inc()
			product = catalog.FindByID(ps.fallback, id)
		} else if product != nil {
			cached := *product
			go func() {
				if err := ps.cacheService.SetProduct(generation, &cached); err != nil {
					ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", id))
				}
			}()
		}
	}

	if product == nil || (!isAdmin && !product.IsActive) {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// ProductTypes lists the distinct product types of active products.
func (ps *ProductService) ProductTypes(ctx context.Context) []string {
	generation := ps.generation.Current()
	types, err := ps.cacheService.GetProductTypes(generation)
	if err != nil {
		ps.logger.Warn("Failed to get product types from cache", gecho.Field("error", err))
	} else if types != nil {
		return types
	}

	types, err = ps.store.ProductTypes(ctx, true)
	if err != nil {
		ps.logger.Warn("Product store unavailable, using fallback product types", gecho.Field("error", err))
		CatalogFallbackTotal.WithLabelValues("types").Inc()
		return catalog.ProductTypes(ps.fallback, true)
	}
	if types == nil {
		types = []string{}
	}

	go func() {
		if err := ps.cacheService.SetProductTypes(generation, types); err != nil {
			ps.logger.Warn("Failed to cache product types", gecho.Field("error", err))
		}
	}()
	return types
}

// Suggest returns the newest active products whose name contains q.
func (ps *ProductService) Suggest(ctx context.Context, q string, limit int) []tables.Product {
	q = strings.TrimSpace(q)
	if q == "" {
		return []tables.Product{}
	}
	if limit <= 0 {
		limit = ps.config.SuggestLimit
	}
	if limit <= 0 {
		limit = 5
	}

	return ps.ListProducts(ctx, &ProductListOptions{
		Page:   1,
		Limit:  limit,
		Filter: catalog.Filter{Search: q},
		SortBy: structs.SortLatest,
	}).Products
}

func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.CreateProductRequest) (*tables.Product, error) {
	startTime := time.Now()

	product, err := ps.writeWithSchemaRetry("create", req.Name, createFields(req), func(fields map[string]any) (*tables.Product, error) {
		return ps.store.InsertProduct(ctx, fields)
	})
	if err != nil {
		ps.logger.Error("Failed to create product", gecho.Field("error", err), gecho.Field("name", req.Name))
		return nil, fmt.Errorf("failed to create product: %w", lib.MapPgError(err))
	}

	ps.afterWrite(product.ID)
	ps.logger.Info("Product created",
		gecho.Field("id", product.ID),
		gecho.Field("duration", time.Since(startTime)),
	)
	return product, nil
}

// UpdateProduct applies the non-nil request fields. Returns lib.ErrNotFound
// when no product has the id.
func (ps *ProductService) UpdateProduct(ctx context.Context, id string, req *structs.UpdateProductRequest) (*tables.Product, error) {
	fields := updateFields(req)
	if len(fields) == 0 {
		return ps.GetProductByID(ctx, id, true)
	}
	fields["updated_at"] = time.Now()

	product, err := ps.writeWithSchemaRetry("update", id, fields, func(fields map[string]any) (*tables.Product, error) {
		return ps.store.UpdateProduct(ctx, id, fields)
	})
	if err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, fmt.Errorf("failed to update product: %w", lib.MapPgError(err))
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	ps.afterWrite(id)
	return product, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id string) error {
	n, err := ps.store.DeleteProduct(ctx, id)
	if err != nil {
		ps.logger.Error("Failed to delete product", gecho.Field("error", err), gecho.Field("id", id))
		return fmt.Errorf("failed to delete product: %w", lib.MapPgError(err))
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	ps.afterWrite(id)
	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}

// InvalidateCaches drops every cached catalog read.
func (ps *ProductService) InvalidateCaches() error {
	ps.generation.Next()
	return ps.cacheService.InvalidateProductCaches("")
}

// afterWrite retires the current cache generation, then clears the old
// entries in the background.
func (ps *ProductService) afterWrite(id string) {
	ps.generation.Next()
	go func() {
		if err := ps.cacheService.InvalidateProductCaches(id); err != nil {
			ps.logger.Warn("Failed to invalidate product caches", gecho.Field("error", err), gecho.Field("id", id))
		}
	}()
}

// writeWithSchemaRetry runs write once more when the store reports an
// optional column as missing. Only the named column is dropped; an error
// that names no column drops every optional column.
func (ps *ProductService) writeWithSchemaRetry(op, product string, fields map[string]any, write func(map[string]any) (*tables.Product, error)) (*tables.Product, error) {
	result, err := write(fields)
	if err == nil || !errors.Is(lib.MapPgError(err), lib.ErrSchemaMismatch) {
		return result, err
	}

	drop := tables.ProductOptionalColumns
	column, named := lib.MissingColumn(err)
	if named {
		if !slices.Contains(tables.ProductOptionalColumns, column) {
			return nil, err
		}
		drop = []string{column}
	}
	stripped, removed := stripColumns(fields, drop)
	if len(removed) == 0 {
		return nil, err
	}

	ps.logger.Warn("Product store is missing a column, retrying without it",
		gecho.Field("operation", op),
		gecho.Field("product", product),
		gecho.Field("missing_column", column),
		gecho.Field("dropped", removed),
	)
	CatalogSchemaRetryTotal.Inc()
	return write(stripped)
}

func stripColumns(fields map[string]any, drop []string) (map[string]any, []string) {
	stripped := make(map[string]any, len(fields))
	var removed []string
	for key, value := range fields {
		if slices.Contains(drop, key) {
			removed = append(removed, key)
			continue
		}
		stripped[key] = value
	}
	slices.Sort(removed)
	return stripped, removed
}

func createFields(req *structs.CreateProductRequest) map[string]any {
	category := req.Category
	if category == "" {
		category = structs.CategoryStandard
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	fields := map[string]any{
		"name":      strings.TrimSpace(req.Name),
		"price":     req.Price,
		"category":  category,
		"is_hot":    req.IsHot,
		"is_active": isActive,
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.ImageURL != "" {
		fields["image_url"] = req.ImageURL
	}
	if req.OriginalPrice != nil {
		fields["original_price"] = *req.OriginalPrice
	}
	if category == structs.CategorySecondHand && req.Condition != "" {
		fields["condition"] = req.Condition
	}
	if req.IsFlashSale != nil {
		fields["is_flash_sale"] = *req.IsFlashSale
	}
	if req.ProductType != "" {
		fields["product_type"] = strings.TrimSpace(req.ProductType)
	}
	return fields
}

func updateFields(req *structs.UpdateProductRequest) map[string]any {
	fields := make(map[string]any)

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		fields["original_price"] = *req.OriginalPrice
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Category != nil {
		fields["category"] = *req.Category
		// Condition only describes second-hand goods.
		if *req.Category != structs.CategorySecondHand {
			fields["condition"] = ""
		}
	}
	if req.Condition != nil && (req.Category == nil || *req.Category == structs.CategorySecondHand) {
		fields["condition"] = *req.Condition
	}
	if req.IsHot != nil {
		fields["is_hot"] = *req.IsHot
	}
	if req.IsFlashSale != nil {
		fields["is_flash_sale"] = *req.IsFlashSale
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.ProductType != nil {
		fields["product_type"] = strings.TrimSpace(*req.ProductType)
	}

	return fields
}
