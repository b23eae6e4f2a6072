package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hotdeals/deal-harvester/internal/platform/models"
)

var rawColumns = []string{
	"title",
	"price_txt",
	"old_price_txt",
	"discount_txt",
	"brand_guess",
	"product_link",
	"image_url",
	"page_url",
	"category",
}

// RawStore is the append-only CSV snapshot of scraped entries.
type RawStore struct {
	path string
}

// NewRawStore returns new RawStore persisting to path.
func NewRawStore(path string) *RawStore {
	return &RawStore{path: path}
}

// Reset truncates the snapshot and writes the header row. Called once at the
// start of every pipeline run.
func (s *RawStore) Reset() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("can't create data directory: %w", err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("can't truncate raw snapshot: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(rawColumns); err != nil {
		_ = file.Close()
		return fmt.Errorf("can't write raw header: %w", err)
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("can't write raw header: %w", err)
	}

	return file.Close()
}

// Append writes one page batch of entries to the end of the snapshot,
// preserving scrape order.
func (s *RawStore) Append(entries []models.RawEntry) error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("can't open raw snapshot: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for ix := range entries {
		if err := writer.Write(rawRecord(&entries[ix])); err != nil {
			return fmt.Errorf("can't write raw entry: %w", err)
		}
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("can't write raw entries: %w", err)
	}

	return nil
}

// Load reads the whole raw snapshot. A missing file yields an empty result.
func (s *RawStore) Load() ([]models.RawEntry, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't open raw snapshot: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read raw snapshot: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]models.RawEntry, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(rawColumns) {
			return nil, fmt.Errorf("unexpected raw row with %d columns", len(record))
		}
		entries = append(entries, models.RawEntry{
			Title:        optString(record[0]),
			PriceText:    optString(record[1]),
			OldPriceText: optString(record[2]),
			DiscountText: optString(record[3]),
			BrandGuess:   optString(record[4]),
			ProductLink:  optString(record[5]),
			ImageURL:     optString(record[6]),
			PageURL:      record[7],
			Category:     record[8],
		})
	}

	return entries, nil
}

func rawRecord(entry *models.RawEntry) []string {
	return []string{
		fromOptString(entry.Title),
		fromOptString(entry.PriceText),
		fromOptString(entry.OldPriceText),
		fromOptString(entry.DiscountText),
		fromOptString(entry.BrandGuess),
		fromOptString(entry.ProductLink),
		fromOptString(entry.ImageURL),
		entry.PageURL,
		entry.Category,
	}
}
