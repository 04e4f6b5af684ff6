package catalog

import (
	"fmt"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"
)

// fallbackEpoch anchors the demo catalog. Each entry is one minute older
// than the previous one, so recency order equals declaration order.
var fallbackEpoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type fallbackItem struct {
	name        string
	price       int64
	original    int64
	category    structs.Category
	hot         bool
	flash       bool
	condition   string
	productType string
	photo       string
	description string
}

var fallbackItems = []fallbackItem{
	{"Premium Leather Backpack", 1250000, 1500000, structs.CategorySale, true, true, "", "Bags", "photo-1548036328-c9fa89d128fa", "Handcrafted from genuine full-grain leather. Features a padded laptop compartment and multiple pockets for organization."},
	{"Minimalist Watch", 850000, 0, structs.CategoryNew, false, false, "", "Watches", "photo-1524592094714-0f0654e20314", "Elegant design with a slim profile. Water-resistant and durable sapphire crystal glass."},
	{"Wireless Noise-Canceling Headphones", 3400000, 0, structs.CategoryStandard, true, false, "", "Audio", "photo-1505740420928-5e560c06d30e", "Immerse yourself in music with industry-leading noise cancellation. 30-hour battery life."},
	{"Smart Home Speaker", 1200000, 1800000, structs.CategorySale, true, true, "", "Audio", "photo-1589492477829-5e65395b66cc", "Voice-controlled speaker with premium sound quality. Controls your smart home devices."},
	{"Vintage Film Camera", 2500000, 0, structs.CategorySecondHand, false, false, "95% - Excellent", "Cameras", "photo-1526170375885-4d8ecf77b99f", "Classic 35mm film camera. Fully functional and tested."},
	{"Designer Sunglasses", 3200000, 4500000, structs.CategorySale, true, false, "", "Accessories", "photo-1511499767150-a48a237f0083", "Premium acetate frames with UV400 protection."},
	{"Mechanical Keyboard", 1800000, 0, structs.CategoryNew, true, false, "", "Computer Accessories", "photo-1595225476474-87563907a212", "RGB mechanical keyboard with custom switches."},
	{"iPhone 13 Pro Max", 15500000, 0, structs.CategorySecondHand, true, false, "98% - Like New", "Phones", "photo-1632661674596-df8be070a5c5", "128GB, Sierra Blue. Battery 92%."},
	{"MacBook Air M1", 14000000, 0, structs.CategorySecondHand, false, false, "90% - Good", "Laptops", "photo-1611186871348-b1ce696e52c9", "8GB/256GB Space Gray. Minor scratches on bottom."},
	{"Ceramic Coffee Set", 450000, 0, structs.CategoryNew, false, false, "", "Home", "photo-1610701596007-11502861dcfa", "Handmade ceramic coffee set for two."},
	{"Wireless Earbuds", 890000, 1200000, structs.CategorySale, false, true, "", "Audio", "photo-1590658268037-6bf12165a8df", "True wireless earbuds with charging case."},
	{"Gaming Mouse", 750000, 1100000, structs.CategorySale, false, false, "", "Computer Accessories", "photo-1527864550417-7fd91fc51a46", "High precision optical sensor gaming mouse."},
	{"Portable Charger", 450000, 600000, structs.CategorySale, false, false, "", "Chargers", "photo-1609091839311-d5365f9ff1c5", "20000mAh fast charging power bank."},
	{"Bluetooth Speaker Mini", 350000, 550000, structs.CategorySale, false, false, "", "Audio", "photo-1608043152269-423dbba4e7e1", "Compact speaker with big sound."},
	{"Fitness Tracker", 650000, 990000, structs.CategorySale, false, false, "", "Wearables", "photo-1575311373937-040b8e1fd5b6", "Track your steps, heart rate, and sleep."},
	{"Laptop Sleeve", 250000, 400000, structs.CategorySale, false, false, "", "Bags", "photo-1588127333419-b9d7de223dcf", "Protective sleeve for 13-inch laptops."},
	{"Desk Lamp", 320000, 500000, structs.CategorySale, false, false, "", "Home", "photo-1534281303260-5920ed3ef03c", "LED desk lamp with adjustable brightness."},
	{"Wireless Charger", 290000, 450000, structs.CategorySale, false, false, "", "Chargers", "photo-1586816879360-004f5b0c51e3", "Fast wireless charging pad."},
	{"USB-C Hub", 550000, 890000, structs.CategorySale, false, false, "", "Computer Accessories", "photo-1616410011236-7a421b19a586", "7-in-1 USB-C hub for laptops."},
	{"Action Camera 4K", 1500000, 2200000, structs.CategorySale, false, false, "", "Cameras", "photo-1564466021188-1e17010c5411", "Waterproof 4K action camera with mounting kit."},
	{"Electric Toothbrush", 850000, 1200000, structs.CategorySale, false, false, "", "Personal Care", "photo-1559676169-703296047d16", "Sonic cleaning technology with 3 modes."},
	{"Yoga Mat Premium", 350000, 500000, structs.CategorySale, false, false, "", "Sports", "photo-1601925260368-ae2f83cf8b7f", "Non-slip eco-friendly yoga mat."},
	{"Smart LED Bulb", 150000, 250000, structs.CategorySale, false, false, "", "Home", "photo-1550989460-0adf9ea622e2", "WiFi enabled RGB smart bulb."},
	{"Travel Backpack", 950000, 1400000, structs.CategorySale, false, false, "", "Bags", "photo-1553062407-98eeb64c6a62", "Water-resistant travel backpack with USB port."},
	{"Wireless Mouse", 250000, 390000, structs.CategorySale, false, false, "", "Computer Accessories", "photo-1615663245857-ac93bb7c39e7", "Ergonomic wireless mouse."},
	{"Phone Tripod", 180000, 300000, structs.CategorySale, false, false, "", "Accessories", "photo-1527011046414-4781f1f94f8c", "Flexible tripod for smartphones."},
	{"Bluetooth Headset", 450000, 700000, structs.CategorySale, false, false, "", "Audio", "photo-1585298723682-7115561c51b7", "Mono bluetooth headset for calls."},
	{"Laptop Stand", 320000, 480000, structs.CategorySale, false, false, "", "Computer Accessories", "photo-1616410011236-7a421b19a586", "Aluminum alloy adjustable laptop stand."},
	{"Ring Light", 280000, 420000, structs.CategorySale, false, false, "", "Accessories", "photo-1624823183483-36c46a676a6e", "10-inch LED ring light for streaming."},
}

// FallbackProductID is the stable id of the n-th (1-based) demo product.
func FallbackProductID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

// FallbackProducts returns a fresh copy of the demo catalog served while
// the product store is unavailable. All entries are active.
func FallbackProducts() []tables.Product {
	products := make([]tables.Product, 0, len(fallbackItems))
	for i, item := range fallbackItems {
		created := fallbackEpoch.Add(-time.Duration(i) * time.Minute)
		p := tables.Product{
			ID:          FallbackProductID(i + 1),
			Name:        item.name,
			Price:       item.price,
			Description: item.description,
			ImageURL:    "https://images.unsplash.com/" + item.photo + "?auto=format&fit=crop&w=800&q=80",
			Category:    item.category,
			Condition:   item.condition,
			IsHot:       item.hot,
			IsActive:    true,
			ProductType: item.productType,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if item.original > 0 {
			orig := item.original
			p.OriginalPrice = &orig
		}
		if item.flash {
			flash := true
			p.IsFlashSale = &flash
		}
		products = append(products, p)
	}
	return products
}
