package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
)

// propertyDocument is the storage shape of domain.Property.
type propertyDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	LandlordID    string             `bson:"landlord_id"`
	LandlordEmail string             `bson:"landlord_email,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	PropertyType  string             `bson:"property_type"`
	Address       string             `bson:"address"`
	City          string             `bson:"city"`
	State         string             `bson:"state,omitempty"`
	ZipCode       string             `bson:"zip_code,omitempty"`
	Country       string             `bson:"country,omitempty"`
	Latitude      *float64           `bson:"latitude,omitempty"`
	Longitude     *float64           `bson:"longitude,omitempty"`
	Price         *float64           `bson:"price,omitempty"`
	Bedrooms      *int               `bson:"bedrooms,omitempty"`
	Bathrooms     *int               `bson:"bathrooms,omitempty"`
	AreaSqft      *float64           `bson:"area_sqft,omitempty"`
	Images        []string           `bson:"images"`
	Videos        []string           `bson:"videos"`
	Amenities     []string           `bson:"amenities"`
	Status        string             `bson:"status"`
	IsFeatured    bool               `bson:"is_featured"`
	Views         int64              `bson:"views"`

	ModerationStatus string     `bson:"moderation_status"`
	ModerationScore  int        `bson:"moderation_score"`
	ModerationIssues []string   `bson:"moderation_issues"`
	ModerationNotes  string     `bson:"moderation_notes,omitempty"`
	ModeratedAt      *time.Time `bson:"moderated_at,omitempty"`
	ModeratedBy      string     `bson:"moderated_by,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func fromDomainProperty(p *domain.Property) *propertyDocument {
	return &propertyDocument{
		ID:               p.ID,
		LandlordID:       p.LandlordID,
		LandlordEmail:    p.LandlordEmail,
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

func (d *propertyDocument) toDomainProperty() *domain.Property {
	return &domain.Property{
		ID:               d.ID,
		LandlordID:       d.LandlordID,
		LandlordEmail:    d.LandlordEmail,
		Title:            d.Title,
		Description:      d.Description,
		PropertyType:     domain.PropertyType(d.PropertyType),
		Address:          d.Address,
		City:             d.City,
		State:            d.State,
		ZipCode:          d.ZipCode,
		Country:          d.Country,
		Latitude:         d.Latitude,
		Longitude:        d.Longitude,
		Price:            d.Price,
		Bedrooms:         d.Bedrooms,
		Bathrooms:        d.Bathrooms,
		AreaSqft:         d.AreaSqft,
		Images:           d.Images,
		Videos:           d.Videos,
		Amenities:        d.Amenities,
		Status:           domain.PropertyStatus(d.Status),
		IsFeatured:       d.IsFeatured,
		Views:            d.Views,
		ModerationStatus: moderation.Status(d.ModerationStatus),
		ModerationScore:  d.ModerationScore,
		ModerationIssues: d.ModerationIssues,
		ModerationNotes:  d.ModerationNotes,
		ModeratedAt:      d.ModeratedAt,
		ModeratedBy:      d.ModeratedBy,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// updatePayload sets the fields a landlord edit or a moderation decision can
// change. Identity, ownership, creation time and the view counter are left to
// the stored document. Optional fields that are now empty are unset.
func (d *propertyDocument) updatePayload() bson.M {
	set := bson.M{
		"title":             d.Title,
		"description":       d.Description,
		"property_type":     d.PropertyType,
		"address":           d.Address,
		"city":              d.City,
		"images":            d.Images,
		"videos":            d.Videos,
		"amenities":         d.Amenities,
		"status":            d.Status,
		"is_featured":       d.IsFeatured,
		"moderation_status": d.ModerationStatus,
		"moderation_score":  d.ModerationScore,
		"moderation_issues": d.ModerationIssues,
		"updated_at":        d.UpdatedAt,
	}
	unset := bson.M{}
	optional := func(key string, present bool, v interface{}) {
		if present {
			set[key] = v
		} else {
			unset[key] = ""
		}
	}
	optional("landlord_email", d.LandlordEmail != "", d.LandlordEmail)
	optional("state", d.State != "", d.State)
	optional("zip_code", d.ZipCode != "", d.ZipCode)
	optional("country", d.Country != "", d.Country)
	optional("latitude", d.Latitude != nil, d.Latitude)
	optional("longitude", d.Longitude != nil, d.Longitude)
	optional("price", d.Price != nil, d.Price)
	optional("bedrooms", d.Bedrooms != nil, d.Bedrooms)
	optional("bathrooms", d.Bathrooms != nil, d.Bathrooms)
	optional("area_sqft", d.AreaSqft != nil, d.AreaSqft)
	optional("moderation_notes", d.ModerationNotes != "", d.ModerationNotes)
	optional("moderated_at", d.ModeratedAt != nil, d.ModeratedAt)
	optional("moderated_by", d.ModeratedBy != "", d.ModeratedBy)

	payload := bson.M{"$set": set}
	if len(unset) > 0 {
		payload["$unset"] = unset
	}
	return payload
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
