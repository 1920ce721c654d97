package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

var admin = domain.Actor{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}

func newModerationUC(f *fixture) *ModerationUsecase {
	uc := NewModerationUsecase(f.deps, logger.NewNop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestQueue(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	items := []*domain.Property{
		storedProperty("l1", moderation.StatusPendingReview),
		storedProperty("l2", moderation.StatusPendingReview),
	}

	f.repo.On("FindByModerationStatus", mock.Anything, moderation.StatusPendingReview, domain.QueueFilter{
		SortBy:  domain.QueueSortScoreLow,
		Page:    1,
		PerPage: domain.DefaultPerPage,
	}).Return(items, int64(2), nil)

	page, err := uc.Queue(context.Background(), domain.QueueFilter{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)
	f.repo.AssertExpectations(t)
}

func TestApprove(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	p := storedProperty("landlord-1", moderation.StatusPendingReview)
	p.ModerationIssues = []string{"Price below typical range"}

	f.repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.repo.On("Update", mock.Anything, p).Return(nil).Once()
	f.cache.On("Delete", mock.Anything, p.ID.Hex()).Return(nil).Once()
	f.expectPublish(domain.SubjectPropertyModerated)
	f.notifier.On("NotifyLandlordApproved", mock.Anything, p).Return(nil).Once()

	got, err := uc.Approve(context.Background(), admin, p.ID.Hex(), "   ")
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusApproved, got.ModerationStatus)
	assert.Equal(t, domain.PropertyStatusActive, got.Status)
	assert.Equal(t, "Approved by admin", got.ModerationNotes)
	assert.Equal(t, "admin-1", got.ModeratedBy)
	assert.Equal(t, fixedNow, *got.ModeratedAt)
	assert.Equal(t, 55, got.ModerationScore)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ManualModerationActions.WithLabelValues("approve")))
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.pub.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestReject(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	p := storedProperty("landlord-1", moderation.StatusApproved)

	_, err := uc.Reject(context.Background(), admin, p.ID.Hex(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.repo.On("Update", mock.Anything, p).Return(nil)
	f.cache.On("Delete", mock.Anything, p.ID.Hex()).Return(nil)
	f.expectPublish(domain.SubjectPropertyModerated)
	f.notifier.On("NotifyLandlordRejected", mock.Anything, p, "Photos do not match the address").Return(nil).Once()

	got, err := uc.Reject(context.Background(), admin, p.ID.Hex(), " Photos do not match the address ")
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusRejected, got.ModerationStatus)
	assert.Equal(t, domain.PropertyStatusInactive, got.Status)
	assert.Equal(t, "Photos do not match the address", got.ModerationNotes)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ManualModerationActions.WithLabelValues("reject")))
	f.notifier.AssertExpectations(t)
}

func TestManualDecisions_RequireAdmin(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	p := storedProperty("landlord-1", moderation.StatusPendingReview)

	_, err := uc.Approve(context.Background(), landlord, p.ID.Hex(), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Reject(context.Background(), landlord, p.ID.Hex(), "no")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.Remoderate(context.Background(), landlord, p.ID.Hex())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestApprove_UnknownProperty(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	p := storedProperty("landlord-1", moderation.StatusPendingReview)
	f.repo.On("GetByID", mock.Anything, p.ID).Return(nil, domain.ErrNotFound)

	_, err := uc.Approve(context.Background(), admin, p.ID.Hex(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Approve(context.Background(), admin, "zzz", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoderate(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	p := storedProperty("landlord-1", moderation.StatusApproved)
	p.ModerationNotes = "Approved by admin"
	p.ModeratedBy = "admin-0"

	f.repo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.repo.On("Update", mock.Anything, p).Return(nil)
	f.cache.On("Delete", mock.Anything, p.ID.Hex()).Return(nil)
	f.expectPublish(domain.SubjectPropertyModerated)
	f.notifier.On("NotifyAdminFlagged", mock.Anything, p).Return(nil).Once()

	got, summary, err := uc.Remoderate(context.Background(), admin, p.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, moderation.StatusPendingReview, got.ModerationStatus)
	assert.Equal(t, domain.PropertyStatusPending, got.Status)
	assert.Empty(t, got.ModerationNotes)
	assert.Empty(t, got.ModeratedBy)
	assert.Equal(t, 55, summary.Score)
	assert.True(t, summary.ActionRequired)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ManualModerationActions.WithLabelValues("remoderate")))
	f.notifier.AssertExpectations(t)
}

func TestStats_FillsMissingStatuses(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)

	f.repo.On("ModerationStats", mock.Anything).Return(&domain.ModerationStats{
		Total:        3,
		ByStatus:     map[moderation.Status]int64{moderation.StatusApproved: 3},
		AverageScore: 101.5,
	}, nil)

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[moderation.Status]int64{
		moderation.StatusApproved:      3,
		moderation.StatusPendingReview: 0,
		moderation.StatusRejected:      0,
	}, stats.ByStatus)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, 101.5, stats.AverageScore)
}

func TestStats_RepositoryError(t *testing.T) {
	f := newFixture(DefaultOptions())
	uc := newModerationUC(f)
	f.repo.On("ModerationStats", mock.Anything).Return(nil, domain.ErrRepository)

	_, err := uc.Stats(context.Background())
	assert.ErrorIs(t, err, domain.ErrRepository)
}
