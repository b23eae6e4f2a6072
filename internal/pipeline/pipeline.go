// Package pipeline drives the harvest: category-by-category, page-by-page
// extraction into the raw snapshot, then one normalize pass that atomically
// replaces the clean snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Fetcher fetches one listing page and returns its HTML.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Extractor parses one listing page into raw product entries.
type Extractor interface {
	Extract(html, pageURL, category string) ([]models.RawEntry, error)
}

// Normalizer derives clean products from the full raw sequence.
type Normalizer interface {
	Normalize(entries []models.RawEntry) []models.CleanProduct
}

// RawStore persists scraped entries batch by batch.
type RawStore interface {
	Reset() error
	Append(entries []models.RawEntry) error
	Load() ([]models.RawEntry, error)
}

// CleanStore atomically replaces the normalized snapshot.
type CleanStore interface {
	Replace(products []models.CleanProduct) error
}

// Category is one listing category to harvest.
type Category struct {
	Key     string
	BaseURL string
}

// DefaultCategories returns the electronics categories harvested by default.
func DefaultCategories() []Category {
	return []Category{
		{Key: "telephone_tablette", BaseURL: "https://www.jumia.ma/telephone-tablette/"},
		{Key: "electronique", BaseURL: "https://www.jumia.ma/electronique/"},
		{Key: "informatique", BaseURL: "https://www.jumia.ma/ordinateurs-accessoires-informatique/"},
		{Key: "gaming", BaseURL: "https://www.jumia.ma/jeux-videos-consoles/"},
	}
}

// Config bounds a pipeline run.
type Config struct {
	Categories       []Category
	PagesPerCategory int
	// PageDelay is the politeness pause between page fetches.
	PageDelay        time.Duration
	FetchTimeout     time.Duration
	NormalizeTimeout time.Duration
}

// Pipeline fetches, extracts and normalizes product listings.
type Pipeline struct {
	fetcher    Fetcher
	extractor  Extractor
	normalizer Normalizer
	rawStore   RawStore
	cleanStore CleanStore
	cfg        Config
	logger     *zerolog.Logger
}

// NewPipeline returns new Pipeline.
func NewPipeline(
	fetcher Fetcher,
	extractor Extractor,
	normalizer Normalizer,
	rawStore RawStore,
	cleanStore CleanStore,
	cfg Config,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		rawStore:   rawStore,
		cleanStore: cleanStore,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes one full harvest run. Page failures are logged and skipped;
// only phase timeouts and store failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (models.RunSummary, error) {
	logger := p.logger.With().Str("runId", uuid.NewString()).Logger()

	summary := models.RunSummary{}
	if err := p.rawStore.Reset(); err != nil {
		return summary, fmt.Errorf("can't reset raw snapshot: %w", err)
	}

	if err := p.harvest(ctx, &logger, &summary); err != nil {
		return summary, err
	}

	if err := p.normalize(ctx, &logger, &summary); err != nil {
		return summary, err
	}

	logger.Info().
		Int("pagesFetched", summary.PagesFetched).
		Int("pagesFailed", summary.PagesFailed).
		Int("rawEntries", summary.RawEntries).
		Int("products", summary.Products).
		Msg("harvest finished")

	return summary, nil
}

// harvest runs the fetch phase under its own timeout: a producer goroutine
// walks categories and pages while a writer appends each batch to the raw
// snapshot, so entries are durable as soon as their page is done.
func (p *Pipeline) harvest(ctx context.Context, logger *zerolog.Logger, summary *models.RunSummary) error {
	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	batches := make(chan []models.RawEntry)
	errGroup, egCtx := errgroup.WithContext(fetchCtx)

	errGroup.Go(func() error {
		defer close(batches)
		return p.fetchPages(egCtx, logger, batches, summary)
	})

	errGroup.Go(func() error {
		for batch := range batches {
			if err := p.rawStore.Append(batch); err != nil {
				return fmt.Errorf("can't append raw entries: %w", err)
			}
			summary.RawEntries += len(batch)
		}
		return nil
	})

	err := errGroup.Wait()
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return ErrFetchTimeout
	}

	return err
}

func (p *Pipeline) fetchPages(
	ctx context.Context,
	logger *zerolog.Logger,
	output chan<- []models.RawEntry,
	summary *models.RunSummary,
) error {
	for _, category := range p.cfg.Categories {
		for page := 1; page <= p.cfg.PagesPerCategory; page++ {
			url := fmt.Sprintf("%s?page=%d#catalog-listing", category.BaseURL, page)

			entries, err := p.fetchPage(ctx, url, category.Key)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				summary.PagesFailed++
				logger.Warn().Err(err).Str("url", url).Msg("can't harvest listing page, skipping")
			} else {
				summary.PagesFetched++
				select {
				case <-ctx.Done():
					return ctx.Err()
				case output <- entries:
				}
			}

			if err := p.pause(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *Pipeline) fetchPage(ctx context.Context, url, category string) ([]models.RawEntry, error) {
	html, err := p.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("can't fetch page: %w", err)
	}

	entries, err := p.extractor.Extract(html, url, category)
	if err != nil {
		return nil, fmt.Errorf("can't extract page: %w", err)
	}

	return entries, nil
}

// normalize runs the normalize phase under its own timeout over the full
// accumulated raw snapshot and atomically replaces the clean snapshot.
func (p *Pipeline) normalize(ctx context.Context, logger *zerolog.Logger, summary *models.RunSummary) error {
	normalizeCtx, cancel := context.WithTimeout(ctx, p.cfg.NormalizeTimeout)
	defer cancel()

	entries, err := p.rawStore.Load()
	if err != nil {
		return fmt.Errorf("can't load raw snapshot: %w", err)
	}

	normalized := make(chan []models.CleanProduct, 1)
	go func() {
		normalized <- p.normalizer.Normalize(entries)
	}()

	select {
	case <-normalizeCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrNormalizeTimeout
	case products := <-normalized:
		if err := p.cleanStore.Replace(products); err != nil {
			return fmt.Errorf("can't replace clean snapshot: %w", err)
		}
		summary.Products = len(products)
		logger.Debug().Int("products", len(products)).Msg("clean snapshot replaced")
		return nil
	}
}

func (p *Pipeline) pause(ctx context.Context) error {
	timer := time.NewTimer(p.cfg.PageDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
