package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hotdeals/deal-harvester/internal/platform/models"
)

var cleanColumns = []string{
	"title",
	"brand",
	"type_product",
	"price_numeric",
	"old_price_numeric",
	"discount_percentage",
	"product_link",
	"image_url",
	"category",
	"page_url",
}

// CleanStore is the CSV snapshot of normalized products.
type CleanStore struct {
	path string
}

// NewCleanStore returns new CleanStore persisting to path.
func NewCleanStore(path string) *CleanStore {
	return &CleanStore{path: path}
}

// Replace swaps the snapshot atomically: the new dataset is fully written to
// a temporary file in the same directory, then renamed over the old one.
// Concurrent readers keep seeing the previous snapshot until the rename.
func (s *CleanStore) Replace(products []models.CleanProduct) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("can't create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("can't create temporary snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(cleanColumns); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write clean header: %w", err)
	}
	for ix := range products {
		if err := writer.Write(cleanRecord(&products[ix])); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("can't write clean product: %w", err)
		}
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write clean snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("can't close temporary snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("can't replace clean snapshot: %w", err)
	}

	return nil
}

// Load reads the whole clean snapshot. A missing file yields an empty result
// so queries before the first completed run return empty sets.
func (s *CleanStore) Load() ([]models.CleanProduct, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't open clean snapshot: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read clean snapshot: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	products := make([]models.CleanProduct, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(cleanColumns) {
			return nil, fmt.Errorf("unexpected clean row with %d columns", len(record))
		}
		products = append(products, models.CleanProduct{
			Title:       optString(record[0]),
			Brand:       optString(record[1]),
			TypeProduct: optString(record[2]),
			Price:       optFloat(record[3]),
			OldPrice:    optFloat(record[4]),
			DiscountPct: optFloat(record[5]),
			ProductLink: optString(record[6]),
			ImageURL:    optString(record[7]),
			Category:    record[8],
			PageURL:     record[9],
		})
	}

	return products, nil
}

func cleanRecord(product *models.CleanProduct) []string {
	return []string{
		fromOptString(product.Title),
		fromOptString(product.Brand),
		fromOptString(product.TypeProduct),
		fromOptFloat(product.Price),
		fromOptFloat(product.OldPrice),
		fromOptFloat(product.DiscountPct),
		fromOptString(product.ProductLink),
		fromOptString(product.ImageURL),
		product.Category,
		product.PageURL,
	}
}
