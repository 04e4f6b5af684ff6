package tables

import (
	"storefront_server/structs"
	"time"

	"github.com/uptrace/bun"
)

// Product prices are whole currency units.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	ID            string           `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name          string           `bun:"name,notnull" json:"name"`
	Price         int64            `bun:"price,notnull" json:"price"`
	OriginalPrice *int64           `bun:"original_price" json:"original_price,omitempty"` // list price before discount
	Description   string           `bun:"description,nullzero" json:"description,omitempty"`
	ImageURL      string           `bun:"image_url,nullzero" json:"image_url"`
	Category      structs.Category `bun:"category,notnull" json:"category"`
	Condition     string           `bun:"condition,nullzero" json:"condition,omitempty"` // second_hand only
	IsHot         bool             `bun:"is_hot,notnull" json:"is_hot"`
	IsFlashSale   *bool            `bun:"is_flash_sale" json:"is_flash_sale,omitempty"`
	IsActive      bool             `bun:"is_active,notnull" json:"is_active"`
	ProductType   string           `bun:"product_type,nullzero" json:"product_type,omitempty"`
	CreatedAt     time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time        `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// OnSale reports whether the product is priced below its original price.
func (p *Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// DiscountPercent is the rounded percentage off the original price, or 0.
func (p *Product) DiscountPercent() int {
	if !p.OnSale() {
		return 0
	}
	orig := *p.OriginalPrice
	return int(((orig-p.Price)*100 + orig/2) / orig)
}

func (p *Product) FlashSale() bool {
	return p.IsFlashSale != nil && *p.IsFlashSale
}

// Optional columns were added after the first schema. Older databases may
// lack them, so writes can be retried without them.
var ProductOptionalColumns = []string{"is_flash_sale", "product_type", "condition", "original_price"}
