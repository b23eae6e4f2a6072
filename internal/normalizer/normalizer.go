// Package normalizer derives clean product records from raw scraped entries.
package normalizer

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/hotdeals/deal-harvester/internal/platform/models"
)

// Letters are matched Unicode-aware: French titles ("Écouteurs ...") keep
// their accented first token as the brand.
var brandToken = regexp.MustCompile(`^([\p{L}\p{N}_]+)`)

// Leading title tokens that are boilerplate, not brands ("No Brand" listings
// and the Vision/Visio confusion).
var brandBlacklist = map[string]struct{}{
	"vision": {},
	"visio":  {},
	"no":     {},
}

// Normalizer turns raw entries into validated, typed product records.
type Normalizer struct{}

// Normalize produces one CleanProduct per RawEntry, preserving order.
// Entries with unparseable prices are kept with nil price fields.
func (n Normalizer) Normalize(entries []models.RawEntry) []models.CleanProduct {
	products := make([]models.CleanProduct, 0, len(entries))
	for ix := range entries {
		products = append(products, normalizeEntry(&entries[ix]))
	}

	return products
}

func normalizeEntry(entry *models.RawEntry) models.CleanProduct {
	price := ParsePrice(entry.PriceText)
	oldPrice := ParsePrice(entry.OldPriceText)

	return models.CleanProduct{
		Title:       entry.Title,
		Brand:       normalizeBrand(entry.Title),
		TypeProduct: ClassifyType(entry.Title),
		Price:       price,
		OldPrice:    oldPrice,
		DiscountPct: discountPct(price, oldPrice),
		ProductLink: entry.ProductLink,
		ImageURL:    entry.ImageURL,
		Category:    entry.Category,
		PageURL:     entry.PageURL,
	}
}

// discountPct computes the real discount percentage from the parsed prices,
// rounded to one decimal. The scraped badge text is ignored. Negative results
// (old price lower than current) are discarded.
func discountPct(price, oldPrice *float64) *float64 {
	if price == nil || oldPrice == nil || *oldPrice <= 0 {
		return nil
	}

	pct := (1 - *price / *oldPrice) * 100
	pct = math.Round(pct*10) / 10
	if pct < 0 {
		return nil
	}

	return &pct
}

// normalizeBrand returns the first word of the title, capitalized, or nil
// when the title is empty or the word is blacklisted.
func normalizeBrand(title *string) *string {
	if title == nil {
		return nil
	}

	token := brandToken.FindString(*title)
	if token == "" {
		return nil
	}
	if _, blacklisted := brandBlacklist[strings.ToLower(token)]; blacklisted {
		return nil
	}

	brand := capitalize(token)

	return &brand
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
