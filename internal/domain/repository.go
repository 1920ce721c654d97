package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
)

// PropertyRepository defines property persistence. Implementations return
// ErrNotFound for unknown IDs and wrap other failures in ErrRepository.
type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error

	// Find returns one page of properties matching filter and the total count.
	Find(ctx context.Context, filter PropertyFilter) ([]*Property, int64, error)

	// FindByModerationStatus backs the admin moderation queue.
	FindByModerationStatus(ctx context.Context, status moderation.Status, filter QueueFilter) ([]*Property, int64, error)

	// ModerationStats aggregates counts per moderation status and the average score.
	ModerationStats(ctx context.Context) (*ModerationStats, error)
}

// PropertyCache is a read-through cache of single properties.
// Get returns ErrNotFound on a miss.
type PropertyCache interface {
	Get(ctx context.Context, id string) (*Property, error)
	Set(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error
}

// Event subjects published on property changes.
const (
	SubjectPropertyCreated   = "property.created"
	SubjectPropertyUpdated   = "property.updated"
	SubjectPropertyDeleted   = "property.deleted"
	SubjectPropertyModerated = "property.moderated"
)

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Notifier delivers moderation outcomes to people.
type Notifier interface {
	NotifyLandlordApproved(ctx context.Context, p *Property) error
	NotifyLandlordRejected(ctx context.Context, p *Property, reason string) error
	NotifyAdminFlagged(ctx context.Context, p *Property) error
}

// MediaStorage stores listing images and videos and returns their public URL.
// Delete only removes objects uploaded under ownerID.
type MediaStorage interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, ownerID, objectURL string) error
}
