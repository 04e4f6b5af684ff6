package admin

import (
	"net/http"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateProductRequest](r)
	if err != nil {
		ar.logger.Debug("Failed to extract and validate body", gecho.Field("error", err))
		handling.HandleError(err, "Unable to create product. Please try again", ar.logger, w)
		return
	}

	newProduct, err := ar.productService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create product. Please try again", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(newProduct),
		gecho.WithMessage("Product created successfully"),
		gecho.Send(),
	)
}
