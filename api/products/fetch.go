package products

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/services"
	"strconv"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListResponse is the data envelope of catalog listings.
func ListResponse(result *services.ProductListResult) map[string]any {
	return map[string]any{
		"products":   result.Products,
		"pagination": result.Pagination,
		"seq":        result.Seq,
		"meta": map[string]any{
			"query_time_ms": result.QueryTime.Milliseconds(),
			"count":         len(result.Products),
			"degraded":      result.Degraded,
		},
	}
}

// FetchAllProducts handles GET /products with filtering, pagination and sorting
func (p *ProductRoutesManager) FetchAllProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r, false)
	if err != nil {
		p.logger.Debug("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result := p.productService.ListProducts(r.Context(), opts)

	gecho.Success(w,
		gecho.WithData(ListResponse(result)),
		gecho.Send(),
	)
}

// FetchProductTypes handles GET /products/types
func (p *ProductRoutesManager) FetchProductTypes(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"types": p.productService.ProductTypes(r.Context()),
		}),
		gecho.Send(),
	)
}

// SuggestProducts handles GET /products/suggest?q= for the search overlay
func (p *ProductRoutesManager) SuggestProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 0 {
			gecho.BadRequest(w, gecho.WithMessage("error.invalidQueryParameters"), gecho.Send())
			return
		}
		limit = min(val, 20)
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": p.productService.Suggest(r.Context(), query.Get("q"), limit),
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}
func (p *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.productIdRequired"),
			gecho.Send(),
		)
		return
	}

	product, err := p.productService.GetProductByID(r.Context(), id, false)
	if err != nil {
		handling.HandleError(err, "error.products.failedToFetchOne", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
		}),
		gecho.Send(),
	)
}
