package router

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/usecase"
)

type MockPropertyService struct{ mock.Mock }

func (m *MockPropertyService) CreateProperty(ctx context.Context, landlord domain.Actor, in usecase.PropertyInput) (*domain.Property, moderation.Summary, error) {
	args := m.Called(ctx, landlord, in)
	if args.Get(0) == nil {
		return nil, moderation.Summary{}, args.Error(2)
	}
	return args.Get(0).(*domain.Property), args.Get(1).(moderation.Summary), args.Error(2)
}
func (m *MockPropertyService) GetProperty(ctx context.Context, viewer domain.Actor, id string) (*domain.Property, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) ListProperties(ctx context.Context, filter domain.PropertyFilter) (*domain.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}
func (m *MockPropertyService) ListLandlordProperties(ctx context.Context, landlordID string, page, perPage int) (*domain.Page, error) {
	args := m.Called(ctx, landlordID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}
func (m *MockPropertyService) UpdateProperty(ctx context.Context, landlord domain.Actor, id string, in usecase.PropertyInput) (*domain.Property, *moderation.Summary, error) {
	args := m.Called(ctx, landlord, id, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	s, _ := args.Get(1).(*moderation.Summary)
	return args.Get(0).(*domain.Property), s, args.Error(2)
}
func (m *MockPropertyService) DeleteProperty(ctx context.Context, actor domain.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *MockPropertyService) PreviewModeration(in usecase.PropertyInput) (moderation.Summary, error) {
	args := m.Called(in)
	return args.Get(0).(moderation.Summary), args.Error(1)
}
func (m *MockPropertyService) UploadMedia(ctx context.Context, landlord domain.Actor, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, landlord, filename, contentType, data)
	return args.String(0), args.Error(1)
}

type MockModerationService struct{ mock.Mock }

func (m *MockModerationService) Queue(ctx context.Context, filter domain.QueueFilter) (*domain.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}
func (m *MockModerationService) Approve(ctx context.Context, admin domain.Actor, id, notes string) (*domain.Property, error) {
	args := m.Called(ctx, admin, id, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockModerationService) Reject(ctx context.Context, admin domain.Actor, id, reason string) (*domain.Property, error) {
	args := m.Called(ctx, admin, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockModerationService) Remoderate(ctx context.Context, admin domain.Actor, id string) (*domain.Property, moderation.Summary, error) {
	args := m.Called(ctx, admin, id)
	if args.Get(0) == nil {
		return nil, moderation.Summary{}, args.Error(2)
	}
	return args.Get(0).(*domain.Property), args.Get(1).(moderation.Summary), args.Error(2)
}
func (m *MockModerationService) Stats(ctx context.Context) (*domain.ModerationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModerationStats), args.Error(1)
}
