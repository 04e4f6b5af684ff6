package catalog

import (
	"cmp"
	"slices"
	"storefront_server/structs"
	"storefront_server/structs/tables"
)

// Comparator orders two products, returning <0, 0 or >0.
type Comparator func(a, b *tables.Product) int

// ByLatest orders newest first, then by id so equal timestamps keep the
// same order as the SQL store.
func ByLatest(a, b *tables.Product) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func ByPriceAsc(a, b *tables.Product) int {
	return cmp.Compare(a.Price, b.Price)
}

func ByPriceDesc(a, b *tables.Product) int {
	return cmp.Compare(b.Price, a.Price)
}

// ByHot puts hot products first and compares nothing else.
func ByHot(a, b *tables.Product) int {
	return cmp.Compare(hotRank(a), hotRank(b))
}

func hotRank(p *tables.Product) int {
	if p.IsHot {
		return 0
	}
	return 1
}

// ComparatorFor maps a sort key to its comparator. Unknown keys and
// relevance order like latest.
func ComparatorFor(key structs.SortKey) Comparator {
	switch key {
	case structs.SortPriceAsc:
		return ByPriceAsc
	case structs.SortPriceDesc:
		return ByPriceDesc
	case structs.SortSales:
		return ByHot
	default:
		return ByLatest
	}
}

// Sort orders products in place. The sort is stable, so items with equal
// keys keep the order they arrived in.
func Sort(products []tables.Product, key structs.SortKey) {
	cmpFn := ComparatorFor(key)
	slices.SortStableFunc(products, func(a, b tables.Product) int {
		return cmpFn(&a, &b)
	})
}
