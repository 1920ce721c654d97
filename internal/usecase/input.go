package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
)

// PropertyInput carries landlord-editable fields. Nil fields are left
// untouched on update and absent on create.
type PropertyInput struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	PropertyType *string   `json:"property_type"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	ZipCode      *string   `json:"zip_code"`
	Country      *string   `json:"country"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Price        *float64  `json:"price"`
	Bedrooms     *int      `json:"bedrooms"`
	Bathrooms    *int      `json:"bathrooms"`
	AreaSqft     *float64  `json:"area_sqft"`
	Images       *[]string `json:"images"`
	Videos       *[]string `json:"videos"`
	Amenities    *[]string `json:"amenities"`
	IsFeatured   *bool     `json:"is_featured"`
}

// Validate rejects structurally impossible values. Missing or weak content
// is left to the moderator.
func (in PropertyInput) Validate() error {
	var problems []string
	if in.Title != nil && utf8.RuneCountInString(*in.Title) > maxTitleLength {
		problems = append(problems, fmt.Sprintf("title longer than %d characters", maxTitleLength))
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLength {
		problems = append(problems, fmt.Sprintf("description longer than %d characters", maxDescriptionLength))
	}
	if in.Bedrooms != nil && *in.Bedrooms < 0 {
		problems = append(problems, "bedrooms must not be negative")
	}
	if in.Bathrooms != nil && *in.Bathrooms < 0 {
		problems = append(problems, "bathrooms must not be negative")
	}
	if in.AreaSqft != nil && *in.AreaSqft < 0 {
		problems = append(problems, "area_sqft must not be negative")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		problems = append(problems, "latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		problems = append(problems, "longitude must be between -180 and 180")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// applyTo copies the set fields onto p. Strings are trimmed.
func (in PropertyInput) applyTo(p *domain.Property) {
	setString(&p.Title, in.Title)
	setString(&p.Description, in.Description)
	if in.PropertyType != nil {
		p.PropertyType = domain.PropertyType(strings.ToLower(strings.TrimSpace(*in.PropertyType)))
	}
	setString(&p.Address, in.Address)
	setString(&p.City, in.City)
	setString(&p.State, in.State)
	setString(&p.ZipCode, in.ZipCode)
	setString(&p.Country, in.Country)
	if in.Latitude != nil {
		p.Latitude = copyOf(in.Latitude)
	}
	if in.Longitude != nil {
		p.Longitude = copyOf(in.Longitude)
	}
	if in.Price != nil {
		p.Price = copyOf(in.Price)
	}
	if in.Bedrooms != nil {
		p.Bedrooms = copyOf(in.Bedrooms)
	}
	if in.Bathrooms != nil {
		p.Bathrooms = copyOf(in.Bathrooms)
	}
	if in.AreaSqft != nil {
		p.AreaSqft = copyOf(in.AreaSqft)
	}
	if in.Images != nil {
		p.Images = cleanList(*in.Images)
	}
	if in.Videos != nil {
		p.Videos = cleanList(*in.Videos)
	}
	if in.Amenities != nil {
		p.Amenities = cleanList(*in.Amenities)
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

// cleanList drops blank entries.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
