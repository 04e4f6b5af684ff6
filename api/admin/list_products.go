package admin

import (
	"net/http"
	"storefront_server/api/products"
	"storefront_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r, true)
	if err != nil {
		ar.logger.Debug("Failed to parse product list options", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result := ar.productService.ListProducts(r.Context(), opts)

	gecho.Success(w,
		gecho.WithData(products.ListResponse(result)),
		gecho.WithMessage("success.products.retrieved"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := ar.productService.GetProductByID(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		handling.HandleError(err, "error.products.failedToFetchOne", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{"product": product}),
		gecho.Send(),
	)
}
