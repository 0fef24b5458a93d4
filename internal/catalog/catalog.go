// Package catalog caches the full product set locally and derives
// filtered, paginated views from it without re-querying the server.
// The server stays the source of truth for stock; the cache only owns
// filter predicate results and pagination state.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"shopfront/internal/api"
	"shopfront/internal/models"
)

// AllCategories is the sentinel meaning "no category filter".
const AllCategories = ""

// ProductAPI is the slice of the REST client the catalog cache needs.
type ProductAPI interface {
	ListProducts(ctx context.Context, page, size int) (*api.ProductPage, error)
}

// Filter is the set of user-chosen predicates narrowing the cached set.
// A zero field means "match all" for that predicate; all predicates are
// AND-combined.
type Filter struct {
	// Category must equal the product's category when set.
	Category string
	// MinPrice is the inclusive lower price bound when > 0.
	MinPrice float64
	// MaxPrice is the inclusive upper price bound when > 0.
	MaxPrice float64
	// SearchText is matched case-insensitively against name or
	// description when non-empty.
	SearchText string
}

// Page is one display window over the filtered set.
type Page struct {
	// Items is the slice [First, First+Rows) of the filtered set,
	// clamped to its length.
	Items []models.Product
	// First is the offset of the window.
	First int
	// Rows is the requested window size.
	Rows int
	// TotalRecords is the filtered count, not the full catalog size,
	// so pagination controls reflect the post-filter total.
	TotalRecords int
}

// Cache holds the most recently fetched product set plus the current
// filter and pagination window.
type Cache struct {
	api      ProductAPI
	pageSize int
	log      *zap.Logger

	mu         sync.RWMutex
	products   []models.Product
	categories []string
	filter     Filter
	first      int
	rows       int
}

// NewCache builds an empty cache. pageSize bounds the single fetch in
// Reload and must be large enough to cover the catalog; rows is the
// initial display window size.
func NewCache(productAPI ProductAPI, pageSize, rows int, log *zap.Logger) *Cache {
	return &Cache{
		api:      productAPI,
		pageSize: pageSize,
		rows:     rows,
		log:      log,
	}
}

// Reload fetches the full product set and rederives the category list.
// Filter and pagination state survive a reload so a cart mutation does
// not disturb what the user is looking at.
func (c *Cache) Reload(ctx context.Context) error {
	page, err := c.api.ListProducts(ctx, 0, c.pageSize)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.products = page.Items
	c.categories = deriveCategories(page.Items)
	c.mu.Unlock()

	c.log.Debug("catalog reloaded", zap.Int("products", len(page.Items)))
	return nil
}

// deriveCategories returns the distinct categories present, sorted,
// prefixed with the all-categories sentinel.
func deriveCategories(products []models.Product) []string {
	seen := make(map[string]bool)
	for _, p := range products {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	categories := make([]string, 0, len(seen)+1)
	categories = append(categories, AllCategories)
	for cat := range seen {
		categories = append(categories, cat)
	}
	sort.Strings(categories[1:])
	return categories
}

// Categories returns the derived category list, sentinel first.
func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.categories...)
}

// Filter returns the current filter spec.
func (c *Cache) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// SetCategory changes the category predicate and resets the window to
// the first page, as any filter change does: keeping the old offset
// could silently render an empty page.
func (c *Cache) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Category = category
	c.first = 0
}

// SetPriceRange changes the price bound predicates and resets the
// window to the first page.
func (c *Cache) SetPriceRange(minPrice, maxPrice float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.MinPrice = minPrice
	c.filter.MaxPrice = maxPrice
	c.first = 0
}

// SetSearchText changes the text predicate and resets the window to the
// first page.
func (c *Cache) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SearchText = text
	c.first = 0
}

// SetPage moves the display window, typically from a paginator event.
func (c *Cache) SetPage(first, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if first < 0 {
		first = 0
	}
	if rows > 0 {
		c.rows = rows
	}
	c.first = first
}

// Page computes the current display window: the filtered set sliced to
// [first, first+rows), clamped.
func (c *Cache) Page() Page {
	c.mu.RLock()
	products := c.products
	filter := c.filter
	first, rows := c.first, c.rows
	c.mu.RUnlock()

	filtered := FilterProducts(products, filter)

	start := first
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + rows
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:        filtered[start:end],
		First:        first,
		Rows:         rows,
		TotalRecords: len(filtered),
	}
}

// FilterProducts applies the filter spec to a product set. It is a pure
// function: deterministic, no mutation of the input, and idempotent
// (filtering an already-filtered set with the same spec is a no-op).
func FilterProducts(products []models.Product, f Filter) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matches(p models.Product, f Filter) bool {
	if f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}
