package models

import "time"

// RawEntry is one scraped product card, exactly as pulled from a listing page.
// Optional fields are nil when the card didn't carry them.
type RawEntry struct {
	Title        *string
	PriceText    *string
	OldPriceText *string
	DiscountText *string
	BrandGuess   *string
	ProductLink  *string
	ImageURL     *string
	PageURL      string
	Category     string
}

// CleanProduct is the normalized record derived from exactly one RawEntry.
type CleanProduct struct {
	Title       *string
	Brand       *string
	TypeProduct *string
	Price       *float64
	OldPrice    *float64
	DiscountPct *float64
	ProductLink *string
	ImageURL    *string
	Category    string
	PageURL     string
}

// RunStatus is the lifecycle state of the scraping pipeline.
type RunStatus string

// Pipeline run statuses.
const (
	StatusIdle      RunStatus = "idle"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusTimeout   RunStatus = "timeout"
	StatusError     RunStatus = "error"
)

// Run is a snapshot of the pipeline run state.
type Run struct {
	Status          RunStatus
	Message         *string
	LastCompletedAt *time.Time
	IsRunning       bool
}

// RunSummary aggregates counters of a single pipeline run.
type RunSummary struct {
	PagesFetched int
	PagesFailed  int
	RawEntries   int
	Products     int
}
