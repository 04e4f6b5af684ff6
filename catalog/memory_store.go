package catalog

import (
	"context"
	"fmt"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a product store held in process memory. It backs
// CATALOG_STORE=memory and the service tests.
type MemoryStore struct {
	mu       sync.RWMutex
	products []tables.Product
	now      func() time.Time
}

func NewMemoryStore(products []tables.Product) *MemoryStore {
	cp := make([]tables.Product, len(products))
	copy(cp, products)
	return &MemoryStore{products: cp, now: time.Now}
}

func (s *MemoryStore) FindProducts(ctx context.Context, q *Query) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page := Apply(s.products, q)
	// Window aliases the matched slice; copy so callers never share backing arrays.
	items := make([]tables.Product, len(page.Items))
	copy(items, page.Items)
	page.Items = items
	return page, nil
}

func (s *MemoryStore) FindProductByID(ctx context.Context, id string) (*tables.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FindByID(s.products, id), nil
}

func (s *MemoryStore) ProductTypes(ctx context.Context, activeOnly bool) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ProductTypes(s.products, activeOnly), nil
}

func (s *MemoryStore) InsertProduct(ctx context.Context, fields map[string]any) (*tables.Product, error) {
	p := tables.Product{
		ID:       uuid.NewString(),
		IsActive: true,
		Category: structs.CategoryStandard,
	}
	if err := applyFields(&p, fields); err != nil {
		return nil, err
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return &p, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*tables.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		updated := s.products[i]
		if err := applyFields(&updated, fields); err != nil {
			return nil, err
		}
		updated.UpdatedAt = s.now()
		s.products[i] = updated
		return &updated, nil
	}
	return nil, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// applyFields copies column values into p. Keys follow the database column
// names so the same write set serves both stores.
func applyFields(p *tables.Product, fields map[string]any) error {
	for key, value := range fields {
		var ok bool
		switch key {
		case "name":
			p.Name, ok = value.(string)
		case "price":
			p.Price, ok = value.(int64)
		case "original_price":
			var v int64
			if v, ok = value.(int64); ok {
				p.OriginalPrice = &v
			}
		case "description":
			p.Description, ok = value.(string)
		case "image_url":
			p.ImageURL, ok = value.(string)
		case "category":
			p.Category, ok = value.(structs.Category)
		case "condition":
			p.Condition, ok = value.(string)
		case "is_hot":
			p.IsHot, ok = value.(bool)
		case "is_flash_sale":
			var v bool
			if v, ok = value.(bool); ok {
				p.IsFlashSale = &v
			}
		case "is_active":
			p.IsActive, ok = value.(bool)
		case "product_type":
			p.ProductType, ok = value.(string)
		case "updated_at":
			_, ok = value.(time.Time)
		default:
			return fmt.Errorf("unknown product column %q", key)
		}
		if !ok {
			return fmt.Errorf("invalid value %T for product column %q", value, key)
		}
	}
	return nil
}
