package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

const defaultApprovalNote = "Approved by admin"

// ModerationUsecase implements the admin side of moderation.
type ModerationUsecase struct {
	effects
}

// NewModerationUsecase creates a new ModerationUsecase.
func NewModerationUsecase(deps Dependencies, log *logger.Logger) *ModerationUsecase {
	return &ModerationUsecase{effects: newEffects(deps, log.Named("ModerationUsecase"))}
}

// Queue lists listings awaiting manual review.
func (uc *ModerationUsecase) Queue(ctx context.Context, filter domain.QueueFilter) (*domain.Page, error) {
	filter.Normalize()
	items, total, err := uc.deps.Repo.FindByModerationStatus(ctx, moderation.StatusPendingReview, filter)
	if err != nil {
		uc.logger.Error("Failed to load moderation queue", zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []*domain.Property{}
	}
	return &domain.Page{Items: items, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// Approve publishes a listing on an admin's decision.
func (uc *ModerationUsecase) Approve(ctx context.Context, admin domain.Actor, id, notes string) (*domain.Property, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = defaultApprovalNote
	}
	p, err := uc.decide(ctx, admin, id, moderation.StatusApproved, notes)
	if err != nil {
		return nil, err
	}
	uc.deps.Metrics.ManualModerationActions.WithLabelValues("approve").Inc()
	return p, nil
}

// Reject hides a listing on an admin's decision. A reason is required.
func (uc *ModerationUsecase) Reject(ctx context.Context, admin domain.Actor, id, reason string) (*domain.Property, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidInput)
	}
	p, err := uc.decide(ctx, admin, id, moderation.StatusRejected, reason)
	if err != nil {
		return nil, err
	}
	uc.deps.Metrics.ManualModerationActions.WithLabelValues("reject").Inc()
	return p, nil
}

func (uc *ModerationUsecase) decide(ctx context.Context, admin domain.Actor, id string, status moderation.Status, notes string) (*domain.Property, error) {
	if !admin.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := uc.deps.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	p.ApplyManualDecision(status, admin.UserID, notes, uc.now())
	if err := uc.deps.Repo.Update(ctx, p); err != nil {
		uc.logger.Error("Failed to store moderation decision", zap.String("property_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.publish(ctx, domain.SubjectPropertyModerated, p)
	uc.notifyOutcome(ctx, p, notes)

	uc.logger.Info("Manual moderation decision",
		zap.String("property_id", id),
		zap.String("admin_id", admin.UserID),
		zap.String("status", string(status)))
	return p, nil
}

// Remoderate runs automatic moderation again on a stored listing, for
// example after the rules changed.
func (uc *ModerationUsecase) Remoderate(ctx context.Context, admin domain.Actor, id string) (*domain.Property, moderation.Summary, error) {
	if !admin.IsAdmin() {
		return nil, moderation.Summary{}, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, moderation.Summary{}, err
	}
	p, err := uc.deps.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, moderation.Summary{}, err
	}

	res := uc.deps.Moderator.Moderate(p.Submission())
	p.ApplyModeration(res, uc.now())
	uc.deps.Metrics.ObserveModeration(string(res.Status), res.Score)

	if err := uc.deps.Repo.Update(ctx, p); err != nil {
		uc.logger.Error("Failed to store re-moderation result", zap.String("property_id", id), zap.Error(err))
		return nil, moderation.Summary{}, err
	}
	uc.deps.Metrics.ManualModerationActions.WithLabelValues("remoderate").Inc()

	uc.invalidate(ctx, id)
	uc.publish(ctx, domain.SubjectPropertyModerated, p)
	uc.notifyOutcome(ctx, p, rejectionReason(p))
	return p, uc.deps.Moderator.Summarize(res), nil
}

// Stats summarizes moderation outcomes across all listings.
func (uc *ModerationUsecase) Stats(ctx context.Context) (*domain.ModerationStats, error) {
	stats, err := uc.deps.Repo.ModerationStats(ctx)
	if err != nil {
		uc.logger.Error("Failed to compute moderation stats", zap.Error(err))
		return nil, err
	}
	if stats.ByStatus == nil {
		stats.ByStatus = map[moderation.Status]int64{}
	}
	for _, s := range []moderation.Status{moderation.StatusApproved, moderation.StatusPendingReview, moderation.StatusRejected} {
		if _, ok := stats.ByStatus[s]; !ok {
			stats.ByStatus[s] = 0
		}
	}
	return stats, nil
}
