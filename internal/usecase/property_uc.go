package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// PropertyUsecase implements landlord and public operations on listings.
type PropertyUsecase struct {
	effects
}

// NewPropertyUsecase creates a new PropertyUsecase.
func NewPropertyUsecase(deps Dependencies, log *logger.Logger) *PropertyUsecase {
	return &PropertyUsecase{effects: newEffects(deps, log.Named("PropertyUsecase"))}
}

// CreateProperty stores a new listing for the calling landlord after
// running automatic moderation on it.
func (uc *PropertyUsecase) CreateProperty(ctx context.Context, landlord domain.Actor, in PropertyInput) (*domain.Property, moderation.Summary, error) {
	if landlord.UserID == "" {
		return nil, moderation.Summary{}, fmt.Errorf("%w: landlord id is required", domain.ErrInvalidInput)
	}
	if err := in.Validate(); err != nil {
		return nil, moderation.Summary{}, err
	}

	now := uc.now()
	p := &domain.Property{
		ID:            primitive.NewObjectID(),
		LandlordID:    landlord.UserID,
		LandlordEmail: landlord.Email,
		Images:        []string{},
		Videos:        []string{},
		Amenities:     []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	in.applyTo(p)
	res := uc.moderate(p)

	if err := uc.deps.Repo.Create(ctx, p); err != nil {
		uc.logger.Error("Failed to save property", zap.String("landlord_id", landlord.UserID), zap.Error(err))
		return nil, moderation.Summary{}, err
	}
	uc.deps.Metrics.PropertiesCreatedTotal.Inc()

	uc.cache(ctx, p)
	uc.publish(ctx, domain.SubjectPropertyCreated, p)
	uc.publish(ctx, domain.SubjectPropertyModerated, p)
	uc.notifyOutcome(ctx, p, rejectionReason(p))

	uc.logger.Info("Property created",
		zap.String("property_id", p.ID.Hex()),
		zap.String("landlord_id", p.LandlordID),
		zap.String("moderation_status", string(p.ModerationStatus)))
	return p, uc.deps.Moderator.Summarize(res), nil
}

// GetProperty returns a listing and counts the view. Listings that are not
// active are only visible to their owner and admins.
func (uc *PropertyUsecase) GetProperty(ctx context.Context, viewer domain.Actor, id string) (*domain.Property, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	p, err := uc.deps.Cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("Cache read failed, falling back to repository", zap.String("property_id", id), zap.Error(err))
		}
		p, err = uc.deps.Repo.GetByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		uc.cache(ctx, p)
	}

	if p.Status != domain.PropertyStatusActive && !viewer.CanManage(p) {
		return nil, domain.ErrNotFound
	}

	if err := uc.deps.Repo.IncrementViews(ctx, oid); err != nil {
		uc.logger.Warn("Failed to increment property views", zap.String("property_id", id), zap.Error(err))
	} else {
		p.Views++
	}
	return p, nil
}

// ListProperties returns active listings only.
func (uc *PropertyUsecase) ListProperties(ctx context.Context, filter domain.PropertyFilter) (*domain.Page, error) {
	active := domain.PropertyStatusActive
	filter.Status = &active
	filter.LandlordID = ""
	return uc.find(ctx, filter)
}

// ListLandlordProperties returns every listing of a landlord whatever its state.
func (uc *PropertyUsecase) ListLandlordProperties(ctx context.Context, landlordID string, page, perPage int) (*domain.Page, error) {
	if landlordID == "" {
		return nil, fmt.Errorf("%w: landlord id is required", domain.ErrInvalidInput)
	}
	return uc.find(ctx, domain.PropertyFilter{LandlordID: landlordID, Page: page, PerPage: perPage})
}

func (uc *PropertyUsecase) find(ctx context.Context, filter domain.PropertyFilter) (*domain.Page, error) {
	filter.Normalize()
	items, total, err := uc.deps.Repo.Find(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list properties", zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []*domain.Property{}
	}
	return &domain.Page{Items: items, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// UpdateProperty applies a partial update by the owner. Changes to any
// moderated field send the listing through moderation again; the returned
// summary is nil otherwise.
func (uc *PropertyUsecase) UpdateProperty(ctx context.Context, landlord domain.Actor, id string, in PropertyInput) (*domain.Property, *moderation.Summary, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	p, err := uc.deps.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, nil, err
	}
	if !p.IsOwnedBy(landlord.UserID) {
		uc.logger.Warn("Update attempt by non-owner", zap.String("property_id", id), zap.String("user_id", landlord.UserID))
		return nil, nil, fmt.Errorf("%w: only the owner can update this property", domain.ErrForbidden)
	}

	before := p.Submission()
	in.applyTo(p)
	if landlord.Email != "" {
		p.LandlordEmail = landlord.Email
	}

	var summary *moderation.Summary
	remoderated := !reflect.DeepEqual(before, p.Submission())
	if remoderated {
		res := uc.moderate(p)
		s := uc.deps.Moderator.Summarize(res)
		summary = &s
	} else {
		p.UpdatedAt = uc.now()
	}

	if err := uc.deps.Repo.Update(ctx, p); err != nil {
		uc.logger.Error("Failed to update property", zap.String("property_id", id), zap.Error(err))
		return nil, nil, err
	}
	uc.deps.Metrics.PropertyUpdatesTotal.Inc()

	uc.invalidate(ctx, id)
	uc.publish(ctx, domain.SubjectPropertyUpdated, p)
	if remoderated {
		uc.publish(ctx, domain.SubjectPropertyModerated, p)
		uc.notifyOutcome(ctx, p, rejectionReason(p))
	}
	return p, summary, nil
}

// DeleteProperty removes a listing. Owners may delete their own listings,
// admins any listing. Stored media is removed on a best-effort basis.
func (uc *PropertyUsecase) DeleteProperty(ctx context.Context, actor domain.Actor, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	p, err := uc.deps.Repo.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if !actor.CanManage(p) {
		uc.logger.Warn("Delete attempt by non-owner", zap.String("property_id", id), zap.String("user_id", actor.UserID))
		return fmt.Errorf("%w: only the owner or an admin can delete this property", domain.ErrForbidden)
	}

	if err := uc.deps.Repo.Delete(ctx, oid); err != nil {
		return err
	}
	uc.deps.Metrics.PropertyDeletesTotal.Inc()

	uc.invalidate(ctx, id)
	uc.publish(ctx, domain.SubjectPropertyDeleted, p)
	for _, u := range append(append([]string{}, p.Images...), p.Videos...) {
		if !ownsMediaURL(p.LandlordID, u) {
			uc.logger.Warn("Skipping media not uploaded by the owner", zap.String("property_id", id), zap.String("url", u))
			continue
		}
		if err := uc.deps.Storage.Delete(ctx, p.LandlordID, u); err != nil {
			uc.logger.Debug("Media not removed", zap.String("url", u), zap.Error(err))
		}
	}
	return nil
}

// ownsMediaURL reports whether raw points at an object stored under the
// landlord's prefix by mediaObjectKey.
func ownsMediaURL(landlordID, raw string) bool {
	if landlordID == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return false
	}
	dir, file := path.Split(path.Clean(u.Path))
	if file == "" {
		return false
	}
	for _, kind := range []string{"images", "videos"} {
		if strings.HasSuffix(dir, "/"+kind+"/"+landlordID+"/") {
			return true
		}
	}
	return false
}

// PreviewModeration scores a draft without storing it. It runs even when
// automatic moderation is disabled.
func (uc *PropertyUsecase) PreviewModeration(in PropertyInput) (moderation.Summary, error) {
	if err := in.Validate(); err != nil {
		return moderation.Summary{}, err
	}
	var p domain.Property
	in.applyTo(&p)
	return uc.deps.Moderator.Summarize(uc.deps.Moderator.Moderate(p.Submission())), nil
}

// Accepted upload types and their size limits.
const (
	MaxImageBytes = 10 << 20
	MaxVideoBytes = 100 << 20
)

// UploadMedia stores an image or video for the landlord and returns its URL.
func (uc *PropertyUsecase) UploadMedia(ctx context.Context, landlord domain.Actor, filename, contentType string, data []byte) (string, error) {
	if landlord.UserID == "" {
		return "", fmt.Errorf("%w: landlord id is required", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}

	var kind string
	var limit int
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind, limit = "images", MaxImageBytes
	case strings.HasPrefix(contentType, "video/"):
		kind, limit = "videos", MaxVideoBytes
	default:
		return "", fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, contentType)
	}
	if len(data) > limit {
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, limit)
	}

	mediaURL, err := uc.deps.Storage.Upload(ctx, mediaObjectKey(landlord.UserID, kind, filename), contentType, data)
	if err != nil {
		uc.logger.Error("Failed to upload media", zap.String("landlord_id", landlord.UserID), zap.Error(err))
		return "", err
	}
	return mediaURL, nil
}

// mediaObjectKey builds a unique key under the landlord's prefix, keeping
// the original extension.
func mediaObjectKey(landlordID, kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", kind, landlordID, uuid.New().String(), ext)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid property id %q", domain.ErrInvalidInput, id)
	}
	return oid, nil
}
