package normalizer_test

import (
	"testing"

	"github.com/hotdeals/deal-harvester/internal/normalizer"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/hotdeals/deal-harvester/internal/platform/models/modelstesting"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitParsePrice(t *testing.T) {
	tests := map[string]struct {
		input *string
		want  *float64
	}{
		"dot decimal with thousands comma": {input: lo.ToPtr("1,299.00 Dhs"), want: lo.ToPtr(1299.0)},
		"comma as decimal separator":       {input: lo.ToPtr("1.299,50"), want: lo.ToPtr(1299.5)},
		"plain integer":                    {input: lo.ToPtr("1500 Dhs"), want: lo.ToPtr(1500.0)},
		"plain float":                      {input: lo.ToPtr("49.9"), want: lo.ToPtr(49.9)},
		"multiple thousands commas":        {input: lo.ToPtr("1,234,567 Dhs"), want: lo.ToPtr(1234567.0)},
		"currency only":                    {input: lo.ToPtr("Dhs"), want: nil},
		"empty string":                     {input: lo.ToPtr(""), want: nil},
		"nil input":                        {input: nil, want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := normalizer.ParsePrice(tt.input)

			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unparseable price")
				return
			}

			require.NotNil(t, got, "should parse price")
			assert.InDelta(t, *tt.want, *got, 1e-9, "should return correct value")
		})
	}
}

func TestUnitClassifyType(t *testing.T) {
	tests := map[string]struct {
		title string
		want  *string
	}{
		"galaxy handset":                    {title: "Samsung Galaxy A14 64GB", want: lo.ToPtr("smartphone")},
		"iphone":                            {title: "Apple iPhone 13", want: lo.ToPtr("smartphone")},
		"galaxy watch is not phone":         {title: "Samsung Galaxy Watch 5", want: lo.ToPtr("smartwatch")},
		"laptop":                            {title: "Lenovo IdeaPad 3 Laptop", want: lo.ToPtr("laptop")},
		"galaxy tab claimed by galaxy rule": {title: "Galaxy Tab S9", want: lo.ToPtr("smartphone")},
		"television":                        {title: "Hisense 43 Television 4K", want: lo.ToPtr("tv")},
		"smart tv with space":               {title: "TCL Smart TV 50 pouces", want: lo.ToPtr("tv")},
		"earbuds":                           {title: "Oraimo FreePods earbuds", want: lo.ToPtr("earpods")},
		"remote":                            {title: "Universal TV Remote Control", want: lo.ToPtr("remote")},
		"console":                           {title: "Sony PlayStation 5", want: lo.ToPtr("console")},
		"word boundary not substring":       {title: "Birdwatching guide", want: nil},
		"no match":                          {title: "USB-C Cable 2m", want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := normalizer.ClassifyType(&tt.title)

			assert.Equal(t, tt.want, got, "should classify title correctly")
		})
	}
}

func TestUnitClassifyTypeNilTitle(t *testing.T) {
	assert.Nil(t, normalizer.ClassifyType(nil), "should return nil for nil title")
}

func TestUnitNormalize(t *testing.T) {
	entries := []models.RawEntry{
		{
			Title:        lo.ToPtr("Samsung Galaxy A14"),
			PriceText:    lo.ToPtr("1500 Dhs"),
			OldPriceText: lo.ToPtr("2000 Dhs"),
			DiscountText: lo.ToPtr("-25%"),
			ProductLink:  lo.ToPtr("https://www.jumia.ma/a14.html"),
			ImageURL:     lo.ToPtr("https://img.jumia.ma/a14.jpg"),
			PageURL:      "https://www.jumia.ma/telephone-tablette/?page=1",
			Category:     "telephone_tablette",
		},
		{
			Title:     lo.ToPtr("No Brand Cable"),
			PriceText: lo.ToPtr("50"),
			PageURL:   "https://www.jumia.ma/electronique/?page=3",
			Category:  "electronique",
		},
	}

	products := normalizer.Normalizer{}.Normalize(entries)

	require.Len(t, products, 2, "should keep one product per entry")

	first := products[0]
	assert.Equal(t, lo.ToPtr("Samsung"), first.Brand, "should capitalize brand")
	assert.Equal(t, lo.ToPtr("smartphone"), first.TypeProduct, "should classify type")
	assert.Equal(t, lo.ToPtr(1500.0), first.Price, "should parse price")
	assert.Equal(t, lo.ToPtr(2000.0), first.OldPrice, "should parse old price")
	require.NotNil(t, first.DiscountPct, "should compute discount")
	assert.InDelta(t, 25.0, *first.DiscountPct, 1e-9, "should compute discount from prices")
	assert.Equal(t, entries[0].ProductLink, first.ProductLink, "should keep product link")
	assert.Equal(t, entries[0].Category, first.Category, "should keep category")

	second := products[1]
	assert.Nil(t, second.Brand, "should blacklist no-brand marker")
	assert.Nil(t, second.TypeProduct, "should leave unmatched type nil")
	assert.Equal(t, lo.ToPtr(50.0), second.Price, "should parse bare price")
	assert.Nil(t, second.OldPrice, "should leave missing old price nil")
	assert.Nil(t, second.DiscountPct, "should leave discount nil without old price")
}

func TestUnitNormalizeDiscount(t *testing.T) {
	tests := map[string]struct {
		priceText    *string
		oldPriceText *string
		want         *float64
	}{
		"regular discount":          {priceText: lo.ToPtr("1500"), oldPriceText: lo.ToPtr("2000"), want: lo.ToPtr(25.0)},
		"rounded to one decimal":    {priceText: lo.ToPtr("999"), oldPriceText: lo.ToPtr("2999"), want: lo.ToPtr(66.7)},
		"negative discount dropped": {priceText: lo.ToPtr("2000"), oldPriceText: lo.ToPtr("1500"), want: nil},
		"zero old price":            {priceText: lo.ToPtr("1500"), oldPriceText: lo.ToPtr("0"), want: nil},
		"unparseable price":         {priceText: lo.ToPtr("n/a"), oldPriceText: lo.ToPtr("2000"), want: nil},
		"missing old price":         {priceText: lo.ToPtr("1500"), oldPriceText: nil, want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entry := modelstesting.FakeRawEntry(func(e *models.RawEntry) {
				e.PriceText = tt.priceText
				e.OldPriceText = tt.oldPriceText
			})

			products := normalizer.Normalizer{}.Normalize([]models.RawEntry{entry})

			require.Len(t, products, 1, "should return one product")
			if tt.want == nil {
				assert.Nil(t, products[0].DiscountPct, "should leave discount nil")
				return
			}
			require.NotNil(t, products[0].DiscountPct, "should compute discount")
			assert.InDelta(t, *tt.want, *products[0].DiscountPct, 1e-9, "should compute correct discount")
		})
	}
}

func TestUnitNormalizeBrand(t *testing.T) {
	tests := map[string]struct {
		title *string
		want  *string
	}{
		"capitalized":          {title: lo.ToPtr("SAMSUNG Galaxy"), want: lo.ToPtr("Samsung")},
		"lowercase input":      {title: lo.ToPtr("xiaomi Redmi 12"), want: lo.ToPtr("Xiaomi")},
		"accented first token": {title: lo.ToPtr("Écouteurs Bluetooth Sans Fil"), want: lo.ToPtr("Écouteurs")},
		"blacklisted no":       {title: lo.ToPtr("No Brand Cable"), want: nil},
		"blacklisted vision":   {title: lo.ToPtr("VISION TV 32"), want: nil},
		"nil title":            {title: nil, want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entry := modelstesting.FakeRawEntry(func(e *models.RawEntry) { e.Title = tt.title })

			products := normalizer.Normalizer{}.Normalize([]models.RawEntry{entry})

			require.Len(t, products, 1, "should return one product")
			assert.Equal(t, tt.want, products[0].Brand, "should normalize brand")
		})
	}
}

func TestUnitNormalizePreservesOrder(t *testing.T) {
	entries := make([]models.RawEntry, 0, 5)
	for ix := 0; ix < 5; ix++ {
		entries = append(entries, modelstesting.FakeRawEntry(func(e *models.RawEntry) {
			e.Title = lo.ToPtr(string(rune('E' - ix)))
		}))
	}

	products := normalizer.Normalizer{}.Normalize(entries)

	require.Len(t, products, len(entries), "should keep all entries")
	for ix := range entries {
		assert.Equal(t, entries[ix].Title, products[ix].Title, "row order should match raw order")
	}
}
