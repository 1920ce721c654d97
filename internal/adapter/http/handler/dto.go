package handler

import (
	"time"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
)

type propertyResponse struct {
	ID           string   `json:"id"`
	LandlordID   string   `json:"landlord_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PropertyType string   `json:"property_type"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state,omitempty"`
	ZipCode      string   `json:"zip_code,omitempty"`
	Country      string   `json:"country,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Price        *float64 `json:"price"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	AreaSqft     *float64 `json:"area_sqft,omitempty"`
	Images       []string `json:"images"`
	Videos       []string `json:"videos"`
	Amenities    []string `json:"amenities"`
	Status       string   `json:"status"`
	IsFeatured   bool     `json:"is_featured"`
	Views        int64    `json:"views"`

	ModerationStatus string     `json:"moderation_status"`
	ModerationScore  int        `json:"moderation_score"`
	ModerationIssues []string   `json:"moderation_issues"`
	ModerationNotes  string     `json:"moderation_notes,omitempty"`
	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`
	ModeratedBy      string     `json:"moderated_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPropertyResponse(p *domain.Property) propertyResponse {
	return propertyResponse{
		ID:               p.ID.Hex(),
		LandlordID:       p.LandlordID,
		Title:            p.Title,
		Description:      p.Description,
		PropertyType:     string(p.PropertyType),
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		ZipCode:          p.ZipCode,
		Country:          p.Country,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Price:            p.Price,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		AreaSqft:         p.AreaSqft,
		Images:           nonNil(p.Images),
		Videos:           nonNil(p.Videos),
		Amenities:        nonNil(p.Amenities),
		Status:           string(p.Status),
		IsFeatured:       p.IsFeatured,
		Views:            p.Views,
		ModerationStatus: string(p.ModerationStatus),
		ModerationScore:  p.ModerationScore,
		ModerationIssues: nonNil(p.ModerationIssues),
		ModerationNotes:  p.ModerationNotes,
		ModeratedAt:      p.ModeratedAt,
		ModeratedBy:      p.ModeratedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type pageResponse struct {
	Items      []propertyResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int64              `json:"total_pages"`
}

func toPageResponse(p *domain.Page) pageResponse {
	items := make([]propertyResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, toPropertyResponse(it))
	}
	var pages int64
	if p.PerPage > 0 {
		pages = (p.Total + int64(p.PerPage) - 1) / int64(p.PerPage)
	}
	return pageResponse{Items: items, Total: p.Total, Page: p.Page, PerPage: p.PerPage, TotalPages: pages}
}

// moderatedResponse pairs a stored property with the moderation outcome
// of the write that produced it.
type moderatedResponse struct {
	Property   propertyResponse    `json:"property"`
	Moderation *moderation.Summary `json:"moderation,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
