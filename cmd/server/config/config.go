package config

import "time"

// Config holds application configuration.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8000"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	RawSnapshotPath   string `env:"RAW_SNAPSHOT_PATH" envDefault:"data/jumia_raw.csv"`
	CleanSnapshotPath string `env:"CLEAN_SNAPSHOT_PATH" envDefault:"data/jumia_products_clean.csv"`

	Harvest Harvest
}

// Harvest holds pipeline and scheduling configuration.
type Harvest struct {
	ScrapeInterval   time.Duration `env:"SCRAPE_INTERVAL" envDefault:"6h"`
	PagesPerCategory int           `env:"PAGES_PER_CATEGORY" envDefault:"20"`
	PageDelay        time.Duration `env:"PAGE_DELAY" envDefault:"1500ms"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"10m"`
	NormalizeTimeout time.Duration `env:"NORMALIZE_TIMEOUT" envDefault:"2m"`
}
