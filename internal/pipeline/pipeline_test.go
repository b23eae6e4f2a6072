package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hotdeals/deal-harvester/internal/pipeline"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/hotdeals/deal-harvester/internal/platform/models/modelstesting"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = zerolog.New(os.Stderr).Level(zerolog.Disabled)

// stubFetcher serves canned pages and fails the urls listed in failing.
type stubFetcher struct {
	mu      sync.Mutex
	failing map[string]struct{}
	fetched []string
	delay   time.Duration
}

func (f *stubFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, fail := f.failing[url]; fail {
		return "", fmt.Errorf("status 500")
	}
	f.fetched = append(f.fetched, url)

	return "<html>" + url + "</html>", nil
}

// stubExtractor returns one entry per page carrying the page url.
type stubExtractor struct{}

func (stubExtractor) Extract(_, pageURL, category string) ([]models.RawEntry, error) {
	entry := modelstesting.FakeRawEntry(func(e *models.RawEntry) {
		e.PageURL = pageURL
		e.Category = category
	})

	return []models.RawEntry{entry}, nil
}

// stubNormalizer maps entries 1:1 to products keeping the page url.
type stubNormalizer struct {
	delay time.Duration
}

func (n stubNormalizer) Normalize(entries []models.RawEntry) []models.CleanProduct {
	time.Sleep(n.delay)

	products := make([]models.CleanProduct, 0, len(entries))
	for ix := range entries {
		products = append(products, modelstesting.FakeCleanProduct(func(p *models.CleanProduct) {
			p.PageURL = entries[ix].PageURL
			p.Category = entries[ix].Category
		}))
	}

	return products
}

// memoryRawStore is an in-memory RawStore.
type memoryRawStore struct {
	mu      sync.Mutex
	entries []models.RawEntry
	batches int
}

func (s *memoryRawStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.batches = 0
	return nil
}

func (s *memoryRawStore) Append(entries []models.RawEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	s.batches++
	return nil
}

func (s *memoryRawStore) Load() ([]models.RawEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RawEntry{}, s.entries...), nil
}

// memoryCleanStore is an in-memory CleanStore.
type memoryCleanStore struct {
	mu       sync.Mutex
	products []models.CleanProduct
	replaced int
}

func (s *memoryCleanStore) Replace(products []models.CleanProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.replaced++
	return nil
}

func testConfig() pipeline.Config {
	return pipeline.Config{
		Categories: []pipeline.Category{
			{Key: "telephone_tablette", BaseURL: "https://example.test/phones/"},
			{Key: "gaming", BaseURL: "https://example.test/gaming/"},
		},
		PagesPerCategory: 2,
		PageDelay:        time.Millisecond,
		FetchTimeout:     time.Second,
		NormalizeTimeout: time.Second,
	}
}

func TestUnitRun(t *testing.T) {
	fetcher := &stubFetcher{}
	rawStore := &memoryRawStore{}
	cleanStore := &memoryCleanStore{}

	pipe := pipeline.NewPipeline(fetcher, stubExtractor{}, stubNormalizer{}, rawStore, cleanStore, testConfig(), &testLogger)

	summary, err := pipe.Run(context.TODO())

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, 4, summary.PagesFetched, "should fetch every page of every category")
	assert.Zero(t, summary.PagesFailed, "shouldn't report failed pages")
	assert.Equal(t, 4, summary.RawEntries, "should persist one entry per page")
	assert.Equal(t, 4, summary.Products, "should normalize every raw entry")

	assert.Equal(t, []string{
		"https://example.test/phones/?page=1#catalog-listing",
		"https://example.test/phones/?page=2#catalog-listing",
		"https://example.test/gaming/?page=1#catalog-listing",
		"https://example.test/gaming/?page=2#catalog-listing",
	}, fetcher.fetched, "should walk categories and pages in order")

	assert.Equal(t, 4, rawStore.batches, "should append page batches incrementally")
	require.Len(t, cleanStore.products, 4, "should replace clean snapshot with all products")
	assert.Equal(t, 1, cleanStore.replaced, "should replace clean snapshot exactly once")

	for ix := range rawStore.entries {
		assert.Equal(t, rawStore.entries[ix].PageURL, cleanStore.products[ix].PageURL, "clean row should match raw row order")
	}
}

func TestUnitRunSkipsFailedPages(t *testing.T) {
	fetcher := &stubFetcher{failing: map[string]struct{}{
		"https://example.test/phones/?page=2#catalog-listing": {},
	}}
	rawStore := &memoryRawStore{}
	cleanStore := &memoryCleanStore{}

	pipe := pipeline.NewPipeline(fetcher, stubExtractor{}, stubNormalizer{}, rawStore, cleanStore, testConfig(), &testLogger)

	summary, err := pipe.Run(context.TODO())

	require.NoError(t, err, "page failures shouldn't abort the run")
	assert.Equal(t, 3, summary.PagesFetched, "should fetch the remaining pages")
	assert.Equal(t, 1, summary.PagesFailed, "should count the failed page")
	assert.Equal(t, 3, summary.RawEntries, "should persist entries of successful pages only")
	assert.Equal(t, 1, cleanStore.replaced, "should still produce the clean snapshot")
}

func TestUnitRunFetchTimeout(t *testing.T) {
	fetcher := &stubFetcher{delay: 50 * time.Millisecond}
	rawStore := &memoryRawStore{}
	cleanStore := &memoryCleanStore{}

	cfg := testConfig()
	cfg.FetchTimeout = 10 * time.Millisecond

	pipe := pipeline.NewPipeline(fetcher, stubExtractor{}, stubNormalizer{}, rawStore, cleanStore, cfg, &testLogger)

	_, err := pipe.Run(context.TODO())

	require.ErrorIs(t, err, pipeline.ErrFetchTimeout, "should report fetch phase timeout")
	assert.Zero(t, cleanStore.replaced, "shouldn't touch the clean snapshot after a fetch timeout")
}

func TestUnitRunNormalizeTimeout(t *testing.T) {
	fetcher := &stubFetcher{}
	rawStore := &memoryRawStore{}
	cleanStore := &memoryCleanStore{}

	cfg := testConfig()
	cfg.NormalizeTimeout = 5 * time.Millisecond

	pipe := pipeline.NewPipeline(
		fetcher,
		stubExtractor{},
		stubNormalizer{delay: 100 * time.Millisecond},
		rawStore,
		cleanStore,
		cfg,
		&testLogger,
	)

	_, err := pipe.Run(context.TODO())

	require.ErrorIs(t, err, pipeline.ErrNormalizeTimeout, "should report normalize phase timeout")
	assert.Zero(t, cleanStore.replaced, "shouldn't replace the clean snapshot after a normalize timeout")
	assert.Equal(t, 4, rawStore.batches, "raw batches written before the cutoff should remain durable")
}
