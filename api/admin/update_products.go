package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		ar.logger.Debug("Failed to extract and validate body", gecho.Field("error", err), gecho.Field("product_id", productID))
		handling.HandleError(err, "error.products.failedToUpdate", ar.logger, w)
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), productID, body)
	if err != nil {
		handling.HandleError(err, "error.products.failedToUpdate", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.WithMessage("success.products.updated"),
		gecho.Send(),
	)
}
