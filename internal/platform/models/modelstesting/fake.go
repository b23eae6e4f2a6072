package modelstesting

import (
	"fmt"
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/samber/lo"
)

// FakeRawEntry returns models.RawEntry with fake data.
func FakeRawEntry(ops ...func(e *models.RawEntry)) models.RawEntry {
	entry := models.RawEntry{
		Title:        lo.ToPtr(faker.Sentence()),
		PriceText:    lo.ToPtr(fakePriceText()),
		OldPriceText: lo.ToPtr(fakePriceText()),
		DiscountText: lo.ToPtr(fmt.Sprintf("%d%%", rand.Intn(80))),
		BrandGuess:   lo.ToPtr(faker.Word()),
		ProductLink:  lo.ToPtr(faker.URL()),
		ImageURL:     lo.ToPtr(faker.URL()),
		PageURL:      faker.URL(),
		Category:     faker.Word(),
	}

	for _, op := range ops {
		op(&entry)
	}

	return entry
}

// FakeCleanProduct returns models.CleanProduct with fake data.
func FakeCleanProduct(ops ...func(p *models.CleanProduct)) models.CleanProduct {
	price := 100 + rand.Float64()*10000
	oldPrice := price * (1 + rand.Float64())
	discount := float64(rand.Intn(1000)) / 10

	product := models.CleanProduct{
		Title:       lo.ToPtr(faker.Sentence()),
		Brand:       lo.ToPtr(faker.Word()),
		TypeProduct: lo.ToPtr(faker.Word()),
		Price:       lo.ToPtr(price),
		OldPrice:    lo.ToPtr(oldPrice),
		DiscountPct: lo.ToPtr(discount),
		ProductLink: lo.ToPtr(faker.URL()),
		ImageURL:    lo.ToPtr(faker.URL()),
		Category:    faker.Word(),
		PageURL:     faker.URL(),
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

func fakePriceText() string {
	return fmt.Sprintf("%d,%03d.00 Dhs", 1+rand.Intn(20), rand.Intn(1000))
}
