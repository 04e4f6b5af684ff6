package catalog

import (
	"storefront_server/structs"
	"storefront_server/structs/tables"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 1000
)

// Query is one listing request after defaults have been applied.
type Query struct {
	Filter  Filter
	IsAdmin bool
	Sort    structs.SortKey
	Page    int
	Limit   int
}

// Normalize applies the default page, limit and sort and clamps the limit.
func (q *Query) Normalize(defaultLimit, maxLimit int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Sort == "" || q.Sort == structs.SortRelevance {
		q.Sort = structs.SortLatest
	}
	q.Filter.Normalize()
}

// Page is one window of a filtered, sorted listing. Total counts every
// match, not just the returned items.
type Page struct {
	Items []tables.Product
	Total int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Apply runs the full pipeline over an in-memory product set: filter,
// order by recency, apply the requested sort, then cut the page window.
// The input slice is not modified.
func Apply(products []tables.Product, q *Query) *Page {
	match := All(q.Filter.Predicates(q.IsAdmin)...)

	matched := make([]tables.Product, 0, len(products))
	for i := range products {
		if match(&products[i]) {
			matched = append(matched, products[i])
		}
	}

	Sort(matched, structs.SortLatest)
	if q.Sort != structs.SortLatest {
		Sort(matched, q.Sort)
	}

	return &Page{
		Items: Window(matched, q.Page, q.Limit),
		Total: len(matched),
	}
}

// Window returns the 1-based page of items. Pages past the end are empty.
func Window(items []tables.Product, page, limit int) []tables.Product {
	if page < 1 || limit < 1 {
		return []tables.Product{}
	}
	// Compare page counts before multiplying so huge pages cannot overflow.
	if page-1 >= (len(items)+limit-1)/limit {
		return []tables.Product{}
	}
	offset := (page - 1) * limit
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// FindByID returns a copy of the product with the given id, or nil.
func FindByID(products []tables.Product, id string) *tables.Product {
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p
		}
	}
	return nil
}

// ProductTypes returns the distinct, non-empty product types in first-seen
// order.
func ProductTypes(products []tables.Product, activeOnly bool) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for i := range products {
		p := &products[i]
		if p.ProductType == "" || (activeOnly && !p.IsActive) {
			continue
		}
		if _, ok := seen[p.ProductType]; ok {
			continue
		}
		seen[p.ProductType] = struct{}{}
		types = append(types, p.ProductType)
	}
	return types
}
