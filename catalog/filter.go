package catalog

import (
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
)

// Predicate reports whether a product satisfies one filter constraint.
type Predicate func(p *tables.Product) bool

// Filter holds the optional constraints of a listing. Zero values mean
// "unconstrained".
type Filter struct {
	Search string
	// SearchDescription widens Search to the description as well as the name.
	SearchDescription bool
	Category          *structs.Category
	ProductType       string
	IsHot             *bool
	IsFlashSale       *bool
	// IsActive only applies to admin listings. Public listings always
	// see active products only.
	IsActive *bool
	MinPrice *int64
	MaxPrice *int64
	OnSale   bool
}

// Normalize folds the legacy "sale" category into OnSale and trims the
// search text.
func (f *Filter) Normalize() {
	f.Search = strings.TrimSpace(f.Search)
	f.ProductType = strings.TrimSpace(f.ProductType)
	if f.Category != nil && *f.Category == structs.CategorySale {
		f.Category = nil
		f.OnSale = true
	}
}

// Predicates returns one predicate per active constraint. Every product
// passed through All(preds...) satisfies each constraint.
func (f *Filter) Predicates(isAdmin bool) []Predicate {
	preds := make([]Predicate, 0, 8)

	if !isAdmin {
		preds = append(preds, MatchActive(true))
	} else if f.IsActive != nil {
		preds = append(preds, MatchActive(*f.IsActive))
	}
	if f.Search != "" {
		preds = append(preds, MatchSearch(f.Search, f.SearchDescription))
	}
	if f.Category != nil {
		preds = append(preds, MatchCategory(*f.Category))
	}
	if f.ProductType != "" {
		preds = append(preds, MatchProductType(f.ProductType))
	}
	if f.IsHot != nil {
		preds = append(preds, MatchHot(*f.IsHot))
	}
	if f.IsFlashSale != nil {
		preds = append(preds, MatchFlashSale(*f.IsFlashSale))
	}
	if f.MinPrice != nil {
		preds = append(preds, MinPrice(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		preds = append(preds, MaxPrice(*f.MaxPrice))
	}
	if f.OnSale {
		preds = append(preds, MatchOnSale())
	}

	return preds
}

// All is the conjunction of preds. With no predicates every product matches.
func All(preds ...Predicate) Predicate {
	return func(p *tables.Product) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// MatchSearch is a case-insensitive substring match on the name, and on the
// description when withDescription is set.
func MatchSearch(q string, withDescription bool) Predicate {
	needle := strings.ToLower(q)
	return func(p *tables.Product) bool {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return true
		}
		return withDescription && strings.Contains(strings.ToLower(p.Description), needle)
	}
}

func MatchCategory(c structs.Category) Predicate {
	return func(p *tables.Product) bool { return p.Category == c }
}

func MatchProductType(t string) Predicate {
	return func(p *tables.Product) bool { return p.ProductType == t }
}

func MatchHot(hot bool) Predicate {
	return func(p *tables.Product) bool { return p.IsHot == hot }
}

// MatchFlashSale treats a missing flag as false.
func MatchFlashSale(flash bool) Predicate {
	return func(p *tables.Product) bool { return p.FlashSale() == flash }
}

func MatchActive(active bool) Predicate {
	return func(p *tables.Product) bool { return p.IsActive == active }
}

func MinPrice(min int64) Predicate {
	return func(p *tables.Product) bool { return p.Price >= min }
}

func MaxPrice(max int64) Predicate {
	return func(p *tables.Product) bool { return p.Price <= max }
}

func MatchOnSale() Predicate {
	return func(p *tables.Product) bool { return p.OnSale() }
}
