package handling

import (
	"fmt"
	"net/http"
	"net/url"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs"
	"strconv"
	"strings"
)

// ParseProductListOptions parses HTTP query parameters into ProductListOptions.
// is_active is honoured for admins only; public listings are always
// restricted to active products.
func ParseProductListOptions(r *http.Request, isAdmin bool) (*services.ProductListOptions, error) {
	query := r.URL.Query()
	opts := &services.ProductListOptions{IsAdmin: isAdmin}

	// Early return if no query params
	if len(query) == 0 {
		return opts, nil
	}

	var err error

	// Parse pagination parameters
	if opts.Page, err = intParam(query, "page"); err != nil {
		return nil, err
	}
	if opts.Limit, err = intParam(query, "limit", "page_size"); err != nil {
		return nil, err
	}
	if seq := query.Get("seq"); seq != "" {
		if opts.Seq, err = strconv.ParseUint(seq, 10, 64); err != nil {
			return nil, invalidParam("seq", seq)
		}
	}

	opts.Filter.Search = strings.TrimSpace(firstOf(query, "q", "search"))
	if opts.Filter.SearchDescription, err = boolParam(query, "search_description"); err != nil {
		return nil, err
	}

	if raw := firstOf(query, "category"); raw != "" {
		category, err := structs.ParseCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", lib.ErrInvalidInput, err)
		}
		opts.Filter.Category = &category
	}
	opts.Filter.ProductType = strings.TrimSpace(firstOf(query, "type", "product_type"))

	// Parse price filters
	if opts.Filter.MinPrice, err = priceParam(query, "min_price", "minPrice"); err != nil {
		return nil, err
	}
	if opts.Filter.MaxPrice, err = priceParam(query, "max_price", "maxPrice"); err != nil {
		return nil, err
	}
	if opts.Filter.MinPrice != nil && opts.Filter.MaxPrice != nil && *opts.Filter.MinPrice > *opts.Filter.MaxPrice {
		return nil, fmt.Errorf("%w: min_price is greater than max_price", lib.ErrInvalidInput)
	}

	// Parse boolean filters
	if opts.Filter.OnSale, err = boolParam(query, "on_sale", "onSale"); err != nil {
		return nil, err
	}
	if opts.Filter.IsFlashSale, err = optionalBoolParam(query, "flash_sale", "is_flash_sale"); err != nil {
		return nil, err
	}
	if opts.Filter.IsHot, err = optionalBoolParam(query, "is_hot", "hot"); err != nil {
		return nil, err
	}
	if isAdmin {
		if opts.Filter.IsActive, err = optionalBoolParam(query, "is_active"); err != nil {
			return nil, err
		}
	}

	// Parse sorting parameters
	if opts.SortBy, err = structs.ParseSortKey(firstOf(query, "sort_by", "sortBy", "sort")); err != nil {
		return nil, fmt.Errorf("%w: %v", lib.ErrInvalidInput, err)
	}

	return opts, nil
}

// firstOf returns the first non-empty value among the given parameter names.
func firstOf(query url.Values, names ...string) string {
	for _, name := range names {
		if v := query.Get(name); v != "" {
			return v
		}
	}
	return ""
}

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: %s=%q", lib.ErrInvalidInput, name, value)
}

func intParam(query url.Values, names ...string) (int, error) {
	raw := strings.TrimSpace(firstOf(query, names...))
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(names[0], raw)
	}
	return val, nil
}

func priceParam(query url.Values, names ...string) (*int64, error) {
	raw := strings.TrimSpace(firstOf(query, names...))
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val < 0 {
		return nil, invalidParam(names[0], raw)
	}
	return &val, nil
}

func boolParam(query url.Values, names ...string) (bool, error) {
	val, err := optionalBoolParam(query, names...)
	if err != nil || val == nil {
		return false, err
	}
	return *val, nil
}

func optionalBoolParam(query url.Values, names ...string) (*bool, error) {
	raw := strings.TrimSpace(firstOf(query, names...))
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidParam(names[0], raw)
	}
	return &val, nil
}
