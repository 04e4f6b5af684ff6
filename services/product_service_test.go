package services

import (
	"context"
	"errors"
	"storefront_server/catalog"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5/pgconn"
)

var errStoreDown = errors.New("dial tcp 127.0.0.1:5432: connection refused")

// failingStore answers every call with errStoreDown.
type failingStore struct{}

func (failingStore) FindProducts(context.Context, *catalog.Query) (*catalog.Page, error) {
	return nil, errStoreDown
}
func (failingStore) FindProductByID(context.Context, string) (*tables.Product, error) {
	return nil, errStoreDown
}
func (failingStore) ProductTypes(context.Context, bool) ([]string, error) { return nil, errStoreDown }
func (failingStore) InsertProduct(context.Context, map[string]any) (*tables.Product, error) {
	return nil, errStoreDown
}
func (failingStore) UpdateProduct(context.Context, string, map[string]any) (*tables.Product, error) {
	return nil, errStoreDown
}
func (failingStore) DeleteProduct(context.Context, string) (int, error) { return 0, errStoreDown }

// legacySchemaStore rejects writes that touch a column the old schema lacks.
// With unnamed set the error does not say which column is missing.
type legacySchemaStore struct {
	*catalog.MemoryStore
	missing string
	unnamed bool

	mu     sync.Mutex
	writes []map[string]any
}

func (s *legacySchemaStore) reject(fields map[string]any) error {
	s.mu.Lock()
	s.writes = append(s.writes, fields)
	s.mu.Unlock()
	if _, ok := fields[s.missing]; ok {
		if s.unnamed {
			return &pgconn.PgError{Code: "42703", Message: "undefined column"}
		}
		return &pgconn.PgError{Code: "42703", Message: `column "` + s.missing + `" of relation "products" does not exist`}
	}
	return nil
}

func (s *legacySchemaStore) InsertProduct(ctx context.Context, fields map[string]any) (*tables.Product, error) {
	if err := s.reject(fields); err != nil {
		return nil, err
	}
	return s.MemoryStore.InsertProduct(ctx, fields)
}

func (s *legacySchemaStore) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*tables.Product, error) {
	if err := s.reject(fields); err != nil {
		return nil, err
	}
	return s.MemoryStore.UpdateProduct(ctx, id, fields)
}

func ptr[T any](v T) *T { return &v }

func newTestProductService(store ProductStore) *ProductService {
	return NewProductService(gecho.NewDefaultLogger(), store, NewCacheService(gecho.NewDefaultLogger(), nil, nil), nil)
}

func seededStore() *catalog.MemoryStore {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return catalog.NewMemoryStore([]tables.Product{
		{ID: "a", Name: "Desk Lamp", Price: 100, OriginalPrice: ptr(int64(150)), IsActive: true, Category: structs.CategoryNew, CreatedAt: base},
		{ID: "b", Name: "Hidden Chair", Price: 200, IsActive: false, Category: structs.CategoryStandard, CreatedAt: base.Add(-time.Hour)},
		{ID: "c", Name: "Floor Lamp", Price: 300, IsActive: true, IsHot: true, Category: structs.CategoryStandard, ProductType: "Lighting", CreatedAt: base.Add(-2 * time.Hour)},
	})
}

func TestListProductsFromStore(t *testing.T) {
	ps := newTestProductService(seededStore())

	result := ps.ListProducts(context.Background(), &ProductListOptions{
		Filter: catalog.Filter{Search: "lamp"},
		SortBy: structs.SortPriceDesc,
		Seq:    7,
	})

	if result.Degraded {
		t.Fatal("expected a healthy result")
	}
	if result.Seq != 7 {
		t.Fatalf("expected seq 7 to be echoed, got %d", result.Seq)
	}
	if len(result.Products) != 2 || result.Products[0].ID != "c" {
		t.Fatalf("unexpected products: %+v", result.Products)
	}
	if result.Pagination.Total != 2 || result.Pagination.Limit != 12 || result.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", result.Pagination)
	}
}

func TestListProductsAdminSeesInactive(t *testing.T) {
	ps := newTestProductService(seededStore())

	public := ps.ListProducts(context.Background(), &ProductListOptions{})
	admin := ps.ListProducts(context.Background(), &ProductListOptions{IsAdmin: true, Filter: catalog.Filter{IsActive: ptr(false)}})

	if public.Pagination.Total != 2 {
		t.Fatalf("expected 2 public products, got %d", public.Pagination.Total)
	}
	if len(admin.Products) != 1 || admin.Products[0].ID != "b" {
		t.Fatalf("expected only the inactive product, got %+v", admin.Products)
	}
}

func TestListProductsFallsBackWhenStoreFails(t *testing.T) {
	ps := newTestProductService(failingStore{})

	result := ps.ListProducts(context.Background(), nil)

	if !result.Degraded {
		t.Fatal("expected a degraded result")
	}
	if result.Pagination.Total != len(catalog.FallbackProducts()) {
		t.Fatalf("expected the whole fallback catalog, got %d", result.Pagination.Total)
	}
	if len(result.Products) != 12 || result.Products[0].ID != catalog.FallbackProductID(1) {
		t.Fatalf("unexpected first page: %d items, first %s", len(result.Products), result.Products[0].ID)
	}
}

func TestListProductsFallbackAppliesFilters(t *testing.T) {
	ps := newTestProductService(failingStore{})

	result := ps.ListProducts(context.Background(), &ProductListOptions{
		Filter: catalog.Filter{Category: ptr(structs.CategorySecondHand)},
		SortBy: structs.SortPriceAsc,
	})

	if result.Pagination.Total != 3 {
		t.Fatalf("expected 3 second-hand fallback products, got %d", result.Pagination.Total)
	}
	for i := 1; i < len(result.Products); i++ {
		if result.Products[i-1].Price > result.Products[i].Price {
			t.Fatal("fallback results are not sorted by price")
		}
	}
}

func TestGetProductByID(t *testing.T) {
	ps := newTestProductService(seededStore())
	ctx := context.Background()

	if p, err := ps.GetProductByID(ctx, "a", false); err != nil || p.Name != "Desk Lamp" {
		t.Fatalf("expected Desk Lamp, got %+v, %v", p, err)
	}
	if _, err := ps.GetProductByID(ctx, "b", false); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected inactive product to be hidden, got %v", err)
	}
	if p, err := ps.GetProductByID(ctx, "b", true); err != nil || p.ID != "b" {
		t.Fatalf("expected admin to see the inactive product, got %+v, %v", p, err)
	}
	if _, err := ps.GetProductByID(ctx, "missing", true); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetProductByIDFallsBack(t *testing.T) {
	ps := newTestProductService(failingStore{})

	p, err := ps.GetProductByID(context.Background(), catalog.FallbackProductID(3), false)
	if err != nil || p.Name != "Wireless Noise-Canceling Headphones" {
		t.Fatalf("expected the fallback product, got %+v, %v", p, err)
	}
	if _, err := ps.GetProductByID(context.Background(), "unknown", false); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an id outside the fallback catalog, got %v", err)
	}
}

func TestSuggestMatchesNamesOnly(t *testing.T) {
	ps := newTestProductService(catalog.NewMemoryStore(catalog.FallbackProducts()))

	got := ps.Suggest(context.Background(), "backpack", 0)
	if len(got) != 2 || got[0].Name != "Premium Leather Backpack" || got[1].Name != "Travel Backpack" {
		t.Fatalf("unexpected suggestions: %+v", got)
	}

	// "genuine" only appears in a description
	if got := ps.Suggest(context.Background(), "genuine", 5); len(got) != 0 {
		t.Fatalf("expected description-only matches to be ignored, got %d", len(got))
	}
	if got := ps.Suggest(context.Background(), "   ", 5); len(got) != 0 {
		t.Fatal("expected no suggestions for a blank query")
	}
}

func TestProductTypes(t *testing.T) {
	ps := newTestProductService(seededStore())
	if got := ps.ProductTypes(context.Background()); len(got) != 1 || got[0] != "Lighting" {
		t.Fatalf("unexpected types: %v", got)
	}

	degraded := newTestProductService(failingStore{})
	if got := degraded.ProductTypes(context.Background()); len(got) == 0 {
		t.Fatal("expected fallback product types")
	}
}

func TestProductWrites(t *testing.T) {
	ps := newTestProductService(catalog.NewMemoryStore(nil))
	ctx := context.Background()

	created, err := ps.CreateProduct(ctx, &structs.CreateProductRequest{
		Name:      "  Film Camera ",
		Price:     2500000,
		Category:  structs.CategoryNew,
		Condition: "ignored for new goods",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "Film Camera" || created.Condition != "" || !created.IsActive {
		t.Fatalf("unexpected product: %+v", created)
	}

	updated, err := ps.UpdateProduct(ctx, created.ID, &structs.UpdateProductRequest{
		Category:  ptr(structs.CategorySecondHand),
		Condition: ptr("95% - Excellent"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Category != structs.CategorySecondHand || updated.Condition != "95% - Excellent" || updated.Price != 2500000 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := ps.UpdateProduct(ctx, "missing", &structs.UpdateProductRequest{Price: ptr(int64(1))}); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := ps.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := ps.DeleteProduct(ctx, created.ID); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestProductWritesSurfaceStoreErrors(t *testing.T) {
	ps := newTestProductService(failingStore{})

	if _, err := ps.CreateProduct(context.Background(), &structs.CreateProductRequest{Name: "x"}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if err := ps.DeleteProduct(context.Background(), "x"); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected the store error, got %v", err)
	}
}

func TestCreateRetriesWithoutTheMissingColumn(t *testing.T) {
	store := &legacySchemaStore{MemoryStore: catalog.NewMemoryStore(nil), missing: "is_flash_sale"}
	ps := newTestProductService(store)

	created, err := ps.CreateProduct(context.Background(), &structs.CreateProductRequest{
		Name:          "Smart Speaker",
		Price:         1200000,
		OriginalPrice: ptr(int64(1800000)),
		IsFlashSale:   ptr(true),
		ProductType:   "Audio",
	})
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if len(store.writes) != 2 {
		t.Fatalf("expected exactly one retry, got %d writes", len(store.writes))
	}
	if _, ok := store.writes[1]["is_flash_sale"]; ok {
		t.Fatal("retry still carries the missing column")
	}
	for _, col := range []string{"product_type", "original_price"} {
		if _, ok := store.writes[1][col]; !ok {
			t.Fatalf("retry dropped column %q the store has", col)
		}
	}
	if created.FlashSale() || created.ProductType != "Audio" || created.OriginalPrice == nil || !created.OnSale() {
		t.Fatalf("unexpected product: %+v", created)
	}
}

func TestUpdateRetriesWithoutOptionalColumnsWhenUnnamed(t *testing.T) {
	store := &legacySchemaStore{MemoryStore: seededStore(), missing: "is_flash_sale", unnamed: true}
	ps := newTestProductService(store)

	updated, err := ps.UpdateProduct(context.Background(), "a", &structs.UpdateProductRequest{
		Price:       ptr(int64(90)),
		IsFlashSale: ptr(true),
		ProductType: ptr("Lighting"),
	})
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if len(store.writes) != 2 {
		t.Fatalf("expected exactly one retry, got %d writes", len(store.writes))
	}
	for _, col := range tables.ProductOptionalColumns {
		if _, ok := store.writes[1][col]; ok {
			t.Fatalf("retry still carries optional column %q", col)
		}
	}
	if updated.Price != 90 {
		t.Fatalf("expected the required fields to be written, got %+v", updated)
	}
}

func TestUpdateDoesNotRetryForRequiredColumns(t *testing.T) {
	store := &legacySchemaStore{MemoryStore: seededStore(), missing: "name"}
	ps := newTestProductService(store)

	_, err := ps.UpdateProduct(context.Background(), "a", &structs.UpdateProductRequest{Name: ptr("Lamp")})
	if !errors.Is(err, lib.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected no retry, got %d writes", len(store.writes))
	}
}

func TestUpdateWithoutOptionalColumnsIsNotRetried(t *testing.T) {
	store := &legacySchemaStore{MemoryStore: seededStore(), missing: "product_type"}
	ps := newTestProductService(store)

	updated, err := ps.UpdateProduct(context.Background(), "a", &structs.UpdateProductRequest{Price: ptr(int64(90))})
	if err != nil || updated.Price != 90 {
		t.Fatalf("expected a plain update, got %+v, %v", updated, err)
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected a single write, got %d", len(store.writes))
	}
}
