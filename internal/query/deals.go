package query

import (
	"sort"
	"strings"

	"github.com/hotdeals/deal-harvester/internal/platform/models"
)

// Score weights. Discount dominates slightly, cheapness and brand trust
// split the rest evenly.
const (
	discountWeight  = 0.4
	cheapnessWeight = 0.3
	brandWeight     = 0.3
	cheapnessScale  = 10000
)

// trustedBrands get the full brand component of the deal score.
var trustedBrands = map[string]struct{}{
	"samsung": {},
	"xiaomi":  {},
	"apple":   {},
	"lg":      {},
	"sony":    {},
	"dell":    {},
	"hp":      {},
	"lenovo":  {},
	"huawei":  {},
	"asus":    {},
}

// Deal is a product with its computed deal score.
type Deal struct {
	Product models.CleanProduct
	Score   float64
}

// DealScore rates how good a deal the product is. Missing discount or price
// contribute zero to their components, so incomplete records rank low
// instead of being excluded.
func DealScore(product *models.CleanProduct) float64 {
	var discount float64
	if product.DiscountPct != nil {
		discount = *product.DiscountPct
	}

	var cheapness float64
	if product.Price != nil && *product.Price > 0 {
		cheapness = 1 / *product.Price * cheapnessScale
	}

	var trusted float64
	if product.Brand != nil {
		if _, ok := trustedBrands[strings.ToLower(*product.Brand)]; ok {
			trusted = 1
		}
	}

	return discount*discountWeight + cheapness*cheapnessWeight + trusted*brandWeight
}

// TopDeals returns the limit best-scoring products of the current snapshot.
// Ties keep snapshot order. A limit outside 1..20 is rejected; zero means
// the default of 5.
func (e *Engine) TopDeals(limit int) ([]Deal, error) {
	if limit == 0 {
		limit = DefaultTopDeals
	}
	if limit < 1 || limit > MaxTopDeals {
		return nil, &ValidationError{Param: "limit", Reason: "must be between 1 and 20"}
	}

	products, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	deals := make([]Deal, 0, len(products))
	for ix := range products {
		deals = append(deals, Deal{
			Product: products[ix],
			Score:   DealScore(&products[ix]),
		})
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Score > deals[j].Score
	})

	if len(deals) > limit {
		deals = deals[:limit]
	}

	return deals, nil
}
