// Package api exposes the query engine and the scheduler over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hotdeals/deal-harvester/internal/platform"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/hotdeals/deal-harvester/internal/query"
	"github.com/rs/zerolog"
)

// Scheduler triggers and reports pipeline runs.
type Scheduler interface {
	TriggerNow() error
	Status() models.Run
}

// Handlers holds the HTTP handlers' dependencies.
type Handlers struct {
	engine    *query.Engine
	scheduler Scheduler
	logger    *zerolog.Logger
}

// NewHandlers returns new Handlers.
func NewHandlers(engine *query.Engine, scheduler Scheduler, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		engine:    engine,
		scheduler: scheduler,
		logger:    logger,
	}
}

type productResponse struct {
	Title       *string  `json:"title"`
	Brand       *string  `json:"brand"`
	TypeProduct *string  `json:"type_product"`
	Price       *float64 `json:"price_numeric"`
	OldPrice    *float64 `json:"old_price_numeric"`
	DiscountPct *float64 `json:"discount_percentage"`
	ProductLink *string  `json:"product_link"`
	ImageURL    *string  `json:"image_url"`
	Category    string   `json:"category"`
}

type productListResponse struct {
	Products []productResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
}

type dealResponse struct {
	Title       *string  `json:"title"`
	Brand       *string  `json:"brand"`
	Price       *float64 `json:"price"`
	OldPrice    *float64 `json:"old_price"`
	Discount    *float64 `json:"discount"`
	ImageURL    *string  `json:"image_url"`
	ProductLink *string  `json:"product_link"`
	Category    string   `json:"category"`
	DealScore   float64  `json:"deal_score"`
}

type statsResponse struct {
	TotalProducts int      `json:"total_products"`
	AvgPrice      float64  `json:"avg_price"`
	AvgDiscount   float64  `json:"avg_discount"`
	BrandsCount   int      `json:"brands_count"`
	Categories    []string `json:"categories"`
	Types         []string `json:"types"`
	Brands        []string `json:"brands"`
}

type scrapeStatusResponse struct {
	LastScrape    *time.Time `json:"last_scrape"`
	Status        string     `json:"status"`
	ProductsCount int        `json:"products_count"`
	IsRunning     bool       `json:"is_running"`
}

type triggerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "deal harvester is running",
	})
}

// ListProducts serves the filtered, sorted, paginated product list.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.engine.List(params)
	if err != nil {
		var validationErr *query.ValidationError
		if errors.As(err, &validationErr) {
			h.respondError(w, http.StatusBadRequest, err)
			return
		}
		h.logger.Error().Err(err).Msg("can't list products")
		h.respondError(w, http.StatusInternalServerError, errors.New("can't read products"))
		return
	}

	products := make([]productResponse, 0, len(result.Products))
	for ix := range result.Products {
		products = append(products, toProductResponse(&result.Products[ix]))
	}

	h.respondJSON(w, http.StatusOK, productListResponse{
		Products: products,
		Total:    result.Total,
		Page:     result.Page,
		PerPage:  result.PerPage,
	})
}

// TopDeals serves the best-scoring products of the current snapshot.
func (h *Handlers) TopDeals(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", 0)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}

	deals, err := h.engine.TopDeals(limit)
	if err != nil {
		var validationErr *query.ValidationError
		if errors.As(err, &validationErr) {
			h.respondError(w, http.StatusBadRequest, err)
			return
		}
		h.logger.Error().Err(err).Msg("can't compute top deals")
		h.respondError(w, http.StatusInternalServerError, errors.New("can't read products"))
		return
	}

	response := make([]dealResponse, 0, len(deals))
	for ix := range deals {
		product := &deals[ix].Product
		response = append(response, dealResponse{
			Title:       product.Title,
			Brand:       product.Brand,
			Price:       product.Price,
			OldPrice:    product.OldPrice,
			Discount:    product.DiscountPct,
			ImageURL:    product.ImageURL,
			ProductLink: product.ProductLink,
			Category:    product.Category,
			DealScore:   deals[ix].Score,
		})
	}

	h.respondJSON(w, http.StatusOK, response)
}

// Stats serves snapshot aggregates.
func (h *Handlers) Stats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.engine.Stats()
	if err != nil {
		h.logger.Error().Err(err).Msg("can't compute stats")
		h.respondError(w, http.StatusInternalServerError, errors.New("can't read products"))
		return
	}

	h.respondJSON(w, http.StatusOK, statsResponse{
		TotalProducts: stats.TotalProducts,
		AvgPrice:      stats.AvgPrice,
		AvgDiscount:   stats.AvgDiscount,
		BrandsCount:   stats.BrandsCount,
		Categories:    stats.Categories,
		Types:         stats.Types,
		Brands:        stats.Brands,
	})
}

// ScrapeStatus serves the pipeline run state and the snapshot size.
func (h *Handlers) ScrapeStatus(w http.ResponseWriter, _ *http.Request) {
	run := h.scheduler.Status()

	h.respondJSON(w, http.StatusOK, scrapeStatusResponse{
		LastScrape:    run.LastCompletedAt,
		Status:        string(run.Status),
		ProductsCount: h.engine.Count(),
		IsRunning:     run.IsRunning,
	})
}

// TriggerScrape starts a pipeline run in the background. A run already in
// flight is reported as a non-success body, not an error status.
func (h *Handlers) TriggerScrape(w http.ResponseWriter, _ *http.Request) {
	err := h.scheduler.TriggerNow()
	switch {
	case err == nil:
		h.respondJSON(w, http.StatusOK, triggerResponse{
			Success: true,
			Message: "Scraping started in background",
		})
	case errors.Is(err, platform.ErrAlreadyRunning):
		h.respondJSON(w, http.StatusOK, triggerResponse{
			Success: false,
			Message: "Scraping already in progress",
		})
	default:
		h.logger.Error().Err(err).Msg("can't trigger scrape")
		h.respondError(w, http.StatusInternalServerError, errors.New("can't trigger scrape"))
	}
}

func toProductResponse(product *models.CleanProduct) productResponse {
	return productResponse{
		Title:       product.Title,
		Brand:       product.Brand,
		TypeProduct: product.TypeProduct,
		Price:       product.Price,
		OldPrice:    product.OldPrice,
		DiscountPct: product.DiscountPct,
		ProductLink: product.ProductLink,
		ImageURL:    product.ImageURL,
		Category:    product.Category,
	}
}

func parseListParams(r *http.Request) (query.Params, error) {
	page, err := parseIntParam(r, "page", 0)
	if err != nil {
		return query.Params{}, err
	}
	perPage, err := parseIntParam(r, "per_page", 0)
	if err != nil {
		return query.Params{}, err
	}
	minPrice, err := parseFloatParam(r, "min_price")
	if err != nil {
		return query.Params{}, err
	}
	maxPrice, err := parseFloatParam(r, "max_price")
	if err != nil {
		return query.Params{}, err
	}

	values := r.URL.Query()

	return query.Params{
		Page:        page,
		PerPage:     perPage,
		Category:    values.Get("category"),
		Brand:       values.Get("brand"),
		TypeProduct: values.Get("type_product"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Search:      values.Get("search"),
		SortBy:      values.Get("sort_by"),
		SortOrder:   values.Get("sort_order"),
	}, nil
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &query.ValidationError{Param: name, Reason: "must be an integer"}
	}

	return value, nil
}

func parseFloatParam(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &query.ValidationError{Param: name, Reason: "must be a number"}
	}

	return &value, nil
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("can't write response")
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, err error) {
	h.respondJSON(w, status, errorResponse{Error: err.Error()})
}
