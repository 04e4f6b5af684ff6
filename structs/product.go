package structs

import "fmt"

// Category is the merchandising bucket of a product.
type Category string

const (
	CategoryNew        Category = "new"
	CategorySecondHand Category = "second_hand"
	CategoryStandard   Category = "standard"
	// CategorySale is a legacy bucket. Sale status is now derived from prices,
	// so filters treat it as a request for on-sale products.
	CategorySale Category = "sale"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryNew, CategorySecondHand, CategoryStandard, CategorySale:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// SortKey selects the ordering of a product listing.
type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	// SortSales puts hot products first.
	SortSales SortKey = "sales"
	// SortRelevance is accepted from clients and ordered like SortLatest.
	SortRelevance SortKey = "relevance"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortLatest, nil
	case SortLatest, SortPriceAsc, SortPriceDesc, SortSales:
		return k, nil
	case SortRelevance:
		return SortLatest, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}
