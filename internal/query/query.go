// Package query answers filter/sort/pagination, top-deals and stats queries
// over the current clean snapshot. The snapshot is reloaded on every request,
// so queries always see the latest fully written dataset and never block the
// pipeline.
package query

import (
	"sort"
	"strings"

	"github.com/hotdeals/deal-harvester/internal/platform/models"
)

// Pagination and limit bounds.
const (
	DefaultPerPage  = 20
	MaxPerPage      = 1000
	DefaultTopDeals = 5
	MaxTopDeals     = 20
)

// CleanStore loads the clean snapshot.
type CleanStore interface {
	Load() ([]models.CleanProduct, error)
}

// Engine is the product query engine.
type Engine struct {
	store CleanStore
}

// NewEngine returns new Engine reading from store.
func NewEngine(store CleanStore) *Engine {
	return &Engine{store: store}
}

// Params are product list query parameters. Zero values mean "not set".
type Params struct {
	Page        int
	PerPage     int
	Category    string
	Brand       string
	TypeProduct string
	MinPrice    *float64
	MaxPrice    *float64
	Search      string
	SortBy      string
	SortOrder   string
}

// Result is one page of products with the post-filter total.
type Result struct {
	Products []models.CleanProduct
	Total    int
	Page     int
	PerPage  int
}

// List applies filters, sorting and pagination to the current snapshot.
func (e *Engine) List(params Params) (Result, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return Result{}, err
	}

	products, err := e.store.Load()
	if err != nil {
		return Result{}, err
	}

	filtered := filterProducts(products, params)
	sortProducts(filtered, params.SortBy, params.SortOrder)

	total := len(filtered)
	start := (params.Page - 1) * params.PerPage
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	return Result{
		Products: filtered[start:end],
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
	}, nil
}

// Count returns the record count of the current snapshot, zero when the
// snapshot is absent or unreadable.
func (e *Engine) Count() int {
	products, err := e.store.Load()
	if err != nil {
		return 0
	}

	return len(products)
}

func (p Params) withDefaults() Params {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	if p.SortOrder == "" {
		p.SortOrder = "asc"
	}

	return p
}

func (p Params) validate() error {
	if p.Page < 1 {
		return &ValidationError{Param: "page", Reason: "must be at least 1"}
	}
	if p.PerPage < 1 || p.PerPage > MaxPerPage {
		return &ValidationError{Param: "per_page", Reason: "must be between 1 and 1000"}
	}
	switch p.SortBy {
	case "", "price", "discount", "title":
	default:
		return &ValidationError{Param: "sort_by", Reason: "must be one of price, discount, title"}
	}
	switch p.SortOrder {
	case "asc", "desc":
	default:
		return &ValidationError{Param: "sort_order", Reason: "must be asc or desc"}
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return &ValidationError{Param: "min_price", Reason: "must not exceed max_price"}
	}

	return nil
}

func filterProducts(products []models.CleanProduct, params Params) []models.CleanProduct {
	search := strings.ToLower(params.Search)

	filtered := make([]models.CleanProduct, 0, len(products))
	for ix := range products {
		if matchesFilters(&products[ix], params, search) {
			filtered = append(filtered, products[ix])
		}
	}

	return filtered
}

// matchesFilters AND-combines all set filters. Records with nil prices never
// match a price filter; records with nil categorical fields never match the
// corresponding exact filter.
func matchesFilters(product *models.CleanProduct, params Params, search string) bool {
	if params.Category != "" && !strings.EqualFold(product.Category, params.Category) {
		return false
	}
	if !matchesOptional(product.Brand, params.Brand) {
		return false
	}
	if !matchesOptional(product.TypeProduct, params.TypeProduct) {
		return false
	}
	if params.MinPrice != nil && (product.Price == nil || *product.Price < *params.MinPrice) {
		return false
	}
	if params.MaxPrice != nil && (product.Price == nil || *product.Price > *params.MaxPrice) {
		return false
	}
	if search != "" {
		if product.Title == nil || !strings.Contains(strings.ToLower(*product.Title), search) {
			return false
		}
	}

	return true
}

func matchesOptional(value *string, want string) bool {
	if want == "" {
		return true
	}
	if value == nil {
		return false
	}

	return strings.EqualFold(*value, want)
}

func sortProducts(products []models.CleanProduct, sortBy, sortOrder string) {
	if sortBy == "" {
		return
	}

	desc := sortOrder == "desc"
	sort.SliceStable(products, func(i, j int) bool {
		switch sortBy {
		case "price":
			return lessFloat(products[i].Price, products[j].Price, desc)
		case "discount":
			return lessFloat(products[i].DiscountPct, products[j].DiscountPct, desc)
		default:
			return lessString(products[i].Title, products[j].Title, desc)
		}
	})
}

// lessFloat orders values, nils last regardless of direction.
func lessFloat(a, b *float64, desc bool) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if desc {
		return *a > *b
	}

	return *a < *b
}

// lessString orders values, nils last regardless of direction.
func lessString(a, b *string, desc bool) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if desc {
		return *a > *b
	}

	return *a < *b
}
