package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/metrics"
)

const notifyTimeout = 10 * time.Second

// Options toggles automatic moderation and notifications.
type Options struct {
	AutoModerationEnabled     bool
	NotifyLandlordOnApproval  bool
	NotifyLandlordOnRejection bool
	NotifyAdminOnFlagged      bool
}

// DefaultOptions enables everything.
func DefaultOptions() Options {
	return Options{
		AutoModerationEnabled:     true,
		NotifyLandlordOnApproval:  true,
		NotifyLandlordOnRejection: true,
		NotifyAdminOnFlagged:      true,
	}
}

// Dependencies groups the ports shared by the usecases.
type Dependencies struct {
	Repo      domain.PropertyRepository
	Cache     domain.PropertyCache
	Publisher domain.EventPublisher
	Notifier  domain.Notifier
	Storage   domain.MediaStorage
	Moderator *moderation.Moderator
	Metrics   *metrics.MetricsManager
	Options   Options
}

// PropertyEvent is the payload of every property.* subject.
type PropertyEvent struct {
	PropertyID       string                `json:"property_id"`
	LandlordID       string                `json:"landlord_id"`
	Title            string                `json:"title,omitempty"`
	Status           domain.PropertyStatus `json:"status,omitempty"`
	ModerationStatus moderation.Status     `json:"moderation_status,omitempty"`
	ModerationScore  int                   `json:"moderation_score"`
	ModerationIssues []string              `json:"moderation_issues,omitempty"`
	ModeratedBy      string                `json:"moderated_by,omitempty"`
	Timestamp        time.Time             `json:"timestamp"`
}

// effects runs the side effects that follow a successful write. Failures
// are logged; the write itself has already succeeded.
type effects struct {
	deps   Dependencies
	logger *logger.Logger
	now    func() time.Time
}

func newEffects(deps Dependencies, log *logger.Logger) effects {
	return effects{
		deps:   deps,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (e effects) cache(ctx context.Context, p *domain.Property) {
	if err := e.deps.Cache.Set(ctx, p); err != nil {
		e.logger.Warn("Failed to cache property", zap.String("property_id", p.ID.Hex()), zap.Error(err))
	}
}

func (e effects) invalidate(ctx context.Context, id string) {
	if err := e.deps.Cache.Delete(ctx, id); err != nil {
		e.logger.Warn("Failed to invalidate cached property", zap.String("property_id", id), zap.Error(err))
	}
}

func (e effects) publish(ctx context.Context, subject string, p *domain.Property) {
	event := PropertyEvent{
		PropertyID:       p.ID.Hex(),
		LandlordID:       p.LandlordID,
		Title:            p.Title,
		Status:           p.Status,
		ModerationStatus: p.ModerationStatus,
		ModerationScore:  p.ModerationScore,
		ModerationIssues: p.ModerationIssues,
		ModeratedBy:      p.ModeratedBy,
		Timestamp:        e.now(),
	}
	if err := e.deps.Publisher.Publish(ctx, subject, event); err != nil {
		e.logger.Error("Failed to publish property event", zap.String("subject", subject), zap.String("property_id", event.PropertyID), zap.Error(err))
	}
}

// notifyOutcome tells the landlord or the admin about a moderation
// decision, as configured. reason is only used for rejections.
func (e effects) notifyOutcome(ctx context.Context, p *domain.Property, reason string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	opts := e.deps.Options
	var err error
	switch p.ModerationStatus {
	case moderation.StatusApproved:
		if opts.NotifyLandlordOnApproval {
			err = e.deps.Notifier.NotifyLandlordApproved(ctx, p)
		}
	case moderation.StatusRejected:
		if opts.NotifyLandlordOnRejection {
			err = e.deps.Notifier.NotifyLandlordRejected(ctx, p, reason)
		}
	case moderation.StatusPendingReview:
		if opts.NotifyAdminOnFlagged {
			err = e.deps.Notifier.NotifyAdminFlagged(ctx, p)
		}
	}
	if err != nil {
		e.logger.Warn("Failed to send moderation notification",
			zap.String("property_id", p.ID.Hex()),
			zap.String("moderation_status", string(p.ModerationStatus)),
			zap.Error(err))
	}
}

// moderate runs automatic moderation on p, or queues it for review when
// automatic moderation is off.
func (e effects) moderate(p *domain.Property) moderation.Result {
	now := e.now()
	if !e.deps.Options.AutoModerationEnabled {
		p.ModerationStatus = moderation.StatusPendingReview
		p.ModerationScore = 0
		p.ModerationIssues = []string{}
		p.ModerationNotes = ""
		p.ModeratedBy = ""
		p.ModeratedAt = nil
		p.Status = domain.PropertyStatusPending
		p.UpdatedAt = now
		return moderation.Result{Status: moderation.StatusPendingReview, Score: 0, Issues: []string{}}
	}

	res := e.deps.Moderator.Moderate(p.Submission())
	p.ApplyModeration(res, now)
	e.deps.Metrics.ObserveModeration(string(res.Status), res.Score)
	e.logger.Info("Property moderated",
		zap.String("property_id", p.ID.Hex()),
		zap.String("status", string(res.Status)),
		zap.Int("score", res.Score),
		zap.Int("issues", len(res.Issues)))
	return res
}

// rejectionReason summarizes automatic issues for the landlord email.
func rejectionReason(p *domain.Property) string {
	if p.ModerationNotes != "" {
		return p.ModerationNotes
	}
	return "Automatic moderation score too low"
}
