package structs

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	Price         int64    `json:"price" validate:"gte=0"`
	OriginalPrice *int64   `json:"original_price" validate:"omitempty,gte=0"`
	Description   string   `json:"description" validate:"max=5000"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	Category      Category `json:"category" validate:"omitempty,oneof=new second_hand standard sale"`
	Condition     string   `json:"condition" validate:"max=100"`
	IsHot         bool     `json:"is_hot"`
	IsFlashSale   *bool    `json:"is_flash_sale"`
	IsActive      *bool    `json:"is_active"`
	ProductType   string   `json:"product_type" validate:"max=100"`
}

// UpdateProductRequest is a partial update. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Price         *int64    `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *int64    `json:"original_price" validate:"omitempty,gte=0"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	ImageURL      *string   `json:"image_url" validate:"omitempty,url"`
	Category      *Category `json:"category" validate:"omitempty,oneof=new second_hand standard sale"`
	Condition     *string   `json:"condition" validate:"omitempty,max=100"`
	IsHot         *bool     `json:"is_hot"`
	IsFlashSale   *bool     `json:"is_flash_sale"`
	IsActive      *bool     `json:"is_active"`
	ProductType   *string   `json:"product_type" validate:"omitempty,max=100"`
}
