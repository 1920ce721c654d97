package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
)

// PropertyStatus controls whether a listing is visible to tenants.
type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusInactive PropertyStatus = "inactive"
)

// IsValid checks if the PropertyStatus is one of the defined constants.
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusActive, PropertyStatusPending, PropertyStatusInactive:
		return true
	}
	return false
}

// PropertyType is the kind of dwelling. Free-form values are accepted; these
// are the ones the frontend offers.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeBedsitter PropertyType = "bedsitter"
	PropertyTypeTownhouse PropertyType = "townhouse"
)

// Role is the role claim carried by an authenticated caller.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// Property is a rental listing owned by a landlord.
// Mapping to storage structures is handled by the repository implementation.
type Property struct {
	ID            primitive.ObjectID
	LandlordID    string
	LandlordEmail string
	Title         string
	Description   string
	PropertyType  PropertyType
	Address       string
	City          string
	State         string
	ZipCode       string
	Country       string
	Latitude      *float64
	Longitude     *float64
	Price         *float64
	Bedrooms      *int
	Bathrooms     *int
	AreaSqft      *float64
	Images        []string
	Videos        []string
	Amenities     []string
	Status        PropertyStatus
	IsFeatured    bool
	Views         int64

	ModerationStatus moderation.Status
	ModerationScore  int
	ModerationIssues []string
	ModerationNotes  string
	ModeratedAt      *time.Time
	ModeratedBy      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Submission projects the fields the moderator scores.
func (p *Property) Submission() moderation.Submission {
	return moderation.Submission{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Images:      p.Images,
		Videos:      p.Videos,
		Address:     p.Address,
		City:        p.City,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
	}
}

// ApplyModeration records an automatic moderation result and sets visibility
// accordingly. Any earlier manual decision is cleared.
func (p *Property) ApplyModeration(res moderation.Result, at time.Time) {
	p.ModerationStatus = res.Status
	p.ModerationScore = res.Score
	p.ModerationIssues = append([]string{}, res.Issues...)
	p.ModerationNotes = ""
	p.ModeratedBy = ""
	p.ModeratedAt = &at
	p.Status = VisibilityFor(res.Status)
	p.UpdatedAt = at
}

// ApplyManualDecision records an admin decision. The score and issues of the
// last automatic run are kept.
func (p *Property) ApplyManualDecision(status moderation.Status, adminID, notes string, at time.Time) {
	p.ModerationStatus = status
	p.ModerationNotes = notes
	p.ModeratedBy = adminID
	p.ModeratedAt = &at
	p.Status = VisibilityFor(status)
	p.UpdatedAt = at
}

// IsOwnedBy reports whether landlordID owns the property.
func (p *Property) IsOwnedBy(landlordID string) bool {
	return landlordID != "" && p.LandlordID == landlordID
}

// VisibilityFor maps a moderation status to the listing visibility.
func VisibilityFor(s moderation.Status) PropertyStatus {
	switch s {
	case moderation.StatusApproved:
		return PropertyStatusActive
	case moderation.StatusPendingReview:
		return PropertyStatusPending
	default:
		return PropertyStatusInactive
	}
}

// Actor is the authenticated caller of an operation. The zero value is an
// anonymous visitor.
type Actor struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may change or see a non-public property.
func (a Actor) CanManage(p *Property) bool {
	return a.IsAdmin() || p.IsOwnedBy(a.UserID)
}
