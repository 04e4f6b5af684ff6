package catalog

import (
	"fmt"
	"math"
	"slices"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func scenarioProducts() []tables.Product {
	return []tables.Product{
		{ID: "1", Name: "Discounted lamp", Price: 100, OriginalPrice: ptr(int64(150)), IsActive: true, CreatedAt: base},
		{ID: "2", Name: "Hidden chair", Price: 200, IsActive: false, CreatedAt: base.Add(-time.Hour)},
	}
}

func ids(products []tables.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func run(products []tables.Product, q Query) *Page {
	q.Normalize(0, 0)
	return Apply(products, &q)
}

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"public listing hides inactive", Query{}, []string{"1"}},
		{"on sale", Query{Filter: Filter{OnSale: true}}, []string{"1"}},
		{"min price above visible", Query{Filter: Filter{MinPrice: ptr(int64(150))}}, []string{}},
		{"admin inactive only", Query{IsAdmin: true, Filter: Filter{IsActive: ptr(false)}}, []string{"2"}},
		{"admin sees all", Query{IsAdmin: true}, []string{"1", "2"}},
		{"public ignores is_active filter", Query{Filter: Filter{IsActive: ptr(false)}}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := run(scenarioProducts(), tt.query)
			if got := ids(page.Items); !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if page.Total != len(tt.want) {
				t.Fatalf("expected total %d, got %d", len(tt.want), page.Total)
			}
		})
	}
}

func TestApplyPagesByLatest(t *testing.T) {
	products := []tables.Product{
		{ID: "old", IsActive: true, CreatedAt: base.Add(-time.Hour)},
		{ID: "new", IsActive: true, CreatedAt: base},
	}

	first := run(products, Query{Limit: 1, Page: 1})
	second := run(products, Query{Limit: 1, Page: 2})

	if got := ids(first.Items); !slices.Equal(got, []string{"new"}) {
		t.Fatalf("page 1: expected [new], got %v", got)
	}
	if got := ids(second.Items); !slices.Equal(got, []string{"old"}) {
		t.Fatalf("page 2: expected [old], got %v", got)
	}
	if first.Total != 2 || second.Total != 2 {
		t.Fatalf("expected total 2 on both pages, got %d and %d", first.Total, second.Total)
	}
}

func TestApplyPaginationCoversAllMatches(t *testing.T) {
	products := FallbackProducts()
	for _, key := range []structs.SortKey{structs.SortLatest, structs.SortPriceAsc, structs.SortPriceDesc, structs.SortSales} {
		for _, limit := range []int{1, 5, 7, 12, 29, 40} {
			full := run(products, Query{Sort: key, Limit: 1000})

			var collected []tables.Product
			for page := 1; ; page++ {
				p := run(products, Query{Sort: key, Limit: limit, Page: page})
				if p.Total != full.Total {
					t.Fatalf("%s/%d: total changed across pages: %d vs %d", key, limit, p.Total, full.Total)
				}
				if len(p.Items) == 0 {
					break
				}
				collected = append(collected, p.Items...)
			}

			if !slices.Equal(ids(collected), ids(full.Items)) {
				t.Fatalf("%s/%d: pages do not concatenate to the full listing", key, limit)
			}
		}
	}
}

func TestApplyNoFalsePositives(t *testing.T) {
	products := FallbackProducts()
	products[3].IsActive = false
	products[8].IsActive = false

	filters := []Filter{
		{Search: "backpack"},
		{Search: "LEATHER", SearchDescription: true},
		{Category: ptr(structs.CategorySecondHand)},
		{Category: ptr(structs.CategorySale)},
		{ProductType: "Audio", IsHot: ptr(true)},
		{IsFlashSale: ptr(true)},
		{IsFlashSale: ptr(false), OnSale: true},
		{MinPrice: ptr(int64(300000)), MaxPrice: ptr(int64(900000))},
	}

	for i, f := range filters {
		for _, admin := range []bool{false, true} {
			t.Run(fmt.Sprintf("filter %d admin %v", i, admin), func(t *testing.T) {
				q := Query{Filter: f, IsAdmin: admin, Limit: 1000}
				page := run(products, q)
				q.Normalize(0, 0)
				match := All(q.Filter.Predicates(admin)...)

				expected := 0
				for j := range products {
					if match(&products[j]) {
						expected++
					}
				}
				if page.Total != expected {
					t.Fatalf("expected %d matches, got %d", expected, page.Total)
				}
				for _, p := range page.Items {
					if !match(&p) {
						t.Fatalf("product %s does not satisfy the filter", p.ID)
					}
					if !admin && !p.IsActive {
						t.Fatalf("inactive product %s leaked into a public listing", p.ID)
					}
				}
			})
		}
	}
}

func TestApplySalesSortIsStable(t *testing.T) {
	products := []tables.Product{
		{ID: "a", IsActive: true, IsHot: false, CreatedAt: base},
		{ID: "b", IsActive: true, IsHot: true, CreatedAt: base.Add(-1 * time.Minute)},
		{ID: "c", IsActive: true, IsHot: false, CreatedAt: base.Add(-2 * time.Minute)},
		{ID: "d", IsActive: true, IsHot: true, CreatedAt: base.Add(-3 * time.Minute)},
	}

	page := run(products, Query{Sort: structs.SortSales})
	if got := ids(page.Items); !slices.Equal(got, []string{"b", "d", "a", "c"}) {
		t.Fatalf("expected hot first then latest, got %v", got)
	}
}

func TestApplyPriceSorts(t *testing.T) {
	products := FallbackProducts()

	asc := run(products, Query{Sort: structs.SortPriceAsc, Limit: 1000}).Items
	desc := run(products, Query{Sort: structs.SortPriceDesc, Limit: 1000}).Items

	for i := 1; i < len(asc); i++ {
		if asc[i-1].Price > asc[i].Price {
			t.Fatalf("price_asc out of order at %d", i)
		}
		if desc[i-1].Price < desc[i].Price {
			t.Fatalf("price_desc out of order at %d", i)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	products := FallbackProducts()
	q := Query{Filter: Filter{OnSale: true}, Sort: structs.SortSales, Limit: 5, Page: 2}

	first := run(products, q)
	second := run(products, q)
	if !slices.Equal(ids(first.Items), ids(second.Items)) || first.Total != second.Total {
		t.Fatal("identical queries returned different results")
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	products := scenarioProducts()
	before := ids(products)
	run(products, Query{IsAdmin: true, Sort: structs.SortPriceDesc})
	if !slices.Equal(ids(products), before) {
		t.Fatal("input slice was reordered")
	}
}

func TestWindow(t *testing.T) {
	items := FallbackProducts()[:5]

	tests := []struct {
		page, limit int
		want        int
	}{
		{1, 2, 2},
		{3, 2, 1},
		{4, 2, 0},
		{1, 10, 5},
		{0, 2, 0},
		{1, 0, 0},
		{math.MaxInt, 2, 0},
		{math.MaxInt/12 + 2, 12, 0},
	}
	for _, tt := range tests {
		if got := Window(items, tt.page, tt.limit); len(got) != tt.want {
			t.Fatalf("Window(page=%d, limit=%d): expected %d items, got %d", tt.page, tt.limit, tt.want, len(got))
		}
	}
}

func TestApplyHugePageIsEmpty(t *testing.T) {
	q := Query{Page: math.MaxInt/DefaultLimit + 2}
	page := run(FallbackProducts(), q)
	if len(page.Items) != 0 {
		t.Fatalf("expected an empty page, got %d items", len(page.Items))
	}
	if page.Total != len(FallbackProducts()) {
		t.Fatalf("expected total %d, got %d", len(FallbackProducts()), page.Total)
	}
}

func TestApplyBreaksLatestTiesByID(t *testing.T) {
	products := []tables.Product{
		{ID: "c", IsActive: true, CreatedAt: base},
		{ID: "a", IsActive: true, CreatedAt: base},
		{ID: "d", IsActive: true, CreatedAt: base.Add(time.Hour)},
		{ID: "b", IsActive: true, CreatedAt: base},
	}

	want := []string{"d", "a", "b", "c"}
	if got := ids(run(products, Query{}).Items); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Pages of a tied listing must not overlap whatever the input order.
	slices.Reverse(products)
	first := ids(run(products, Query{Limit: 2}).Items)
	second := ids(run(products, Query{Page: 2, Limit: 2}).Items)
	if !slices.Equal(append(first, second...), want) {
		t.Fatalf("expected pages %v, got %v then %v", want, first, second)
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Limit: 5000, Sort: structs.SortRelevance, Filter: Filter{Category: ptr(structs.CategorySale), Search: "  lamp "}}
	q.Normalize(12, 1000)

	if q.Page != 1 || q.Limit != 1000 {
		t.Fatalf("unexpected paging: page=%d limit=%d", q.Page, q.Limit)
	}
	if q.Sort != structs.SortLatest {
		t.Fatalf("expected relevance to map to latest, got %s", q.Sort)
	}
	if q.Filter.Category != nil || !q.Filter.OnSale {
		t.Fatal("expected the sale category to become an on-sale filter")
	}
	if q.Filter.Search != "lamp" {
		t.Fatalf("expected trimmed search, got %q", q.Filter.Search)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 12, 29)
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPages)
	}
	if NewPagination(1, 12, 0).TotalPages != 0 {
		t.Fatal("expected 0 pages for an empty listing")
	}
}
