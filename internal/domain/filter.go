package domain

import (
	"strings"

	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Public listing sort orders.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortBedrooms  = "bedrooms"
)

// Moderation queue sort orders.
const (
	QueueSortScoreLow  = "score_low"
	QueueSortScoreHigh = "score_high"
	QueueSortNewest    = "newest"
	QueueSortOldest    = "oldest"
)

// PropertyFilter holds parameters for querying listings.
type PropertyFilter struct {
	City         string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	Search       string
	Status       *PropertyStatus // nil means any
	LandlordID   string
	SortBy       string
	Page         int
	PerPage      int
}

// Normalize clamps pagination and falls back to the default sort order.
func (f *PropertyFilter) Normalize() {
	f.Page, f.PerPage = normalizePage(f.Page, f.PerPage)
	f.City = strings.TrimSpace(f.City)
	f.Search = strings.TrimSpace(f.Search)
	switch f.SortBy {
	case SortNewest, SortPriceLow, SortPriceHigh, SortBedrooms:
	default:
		f.SortBy = SortNewest
	}
}

// QueueFilter holds parameters for reading the manual moderation queue.
type QueueFilter struct {
	SortBy  string
	Page    int
	PerPage int
}

// Normalize clamps pagination and falls back to lowest score first.
func (f *QueueFilter) Normalize() {
	f.Page, f.PerPage = normalizePage(f.Page, f.PerPage)
	switch f.SortBy {
	case QueueSortScoreLow, QueueSortScoreHigh, QueueSortNewest, QueueSortOldest:
	default:
		f.SortBy = QueueSortScoreLow
	}
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Skip is the number of records before the requested page.
func Skip(page, perPage int) int64 {
	return int64((page - 1) * perPage)
}

// Page is one page of listings plus the total match count.
type Page struct {
	Items   []*Property `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// ModerationStats summarizes moderation outcomes across all listings.
type ModerationStats struct {
	Total        int64                       `json:"total_properties"`
	ByStatus     map[moderation.Status]int64 `json:"by_status"`
	Pending      int64                       `json:"pending_review"`
	AverageScore float64                     `json:"average_score"`
}
