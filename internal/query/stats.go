package query

import "sort"

// Stats are aggregates over the current snapshot. Averages cover only
// records where the field is present.
type Stats struct {
	TotalProducts int
	AvgPrice      float64
	AvgDiscount   float64
	BrandsCount   int
	Categories    []string
	Types         []string
	Brands        []string
}

// Stats computes snapshot aggregates.
func (e *Engine) Stats() (Stats, error) {
	products, err := e.store.Load()
	if err != nil {
		return Stats{}, err
	}

	var priceSum, discountSum float64
	var priceCount, discountCount int
	categories := map[string]struct{}{}
	types := map[string]struct{}{}
	brands := map[string]struct{}{}

	for ix := range products {
		product := &products[ix]
		if product.Price != nil {
			priceSum += *product.Price
			priceCount++
		}
		if product.DiscountPct != nil {
			discountSum += *product.DiscountPct
			discountCount++
		}
		if product.Category != "" {
			categories[product.Category] = struct{}{}
		}
		if product.TypeProduct != nil {
			types[*product.TypeProduct] = struct{}{}
		}
		if product.Brand != nil {
			brands[*product.Brand] = struct{}{}
		}
	}

	stats := Stats{
		TotalProducts: len(products),
		BrandsCount:   len(brands),
		Categories:    sortedKeys(categories),
		Types:         sortedKeys(types),
		Brands:        sortedKeys(brands),
	}
	if priceCount > 0 {
		stats.AvgPrice = priceSum / float64(priceCount)
	}
	if discountCount > 0 {
		stats.AvgDiscount = discountSum / float64(discountCount)
	}

	return stats, nil
}

// sortedKeys orders byte-wise, so uppercase sorts before lowercase.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
