package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// ModerationService is the admin moderation API the handlers depend on.
type ModerationService interface {
	Queue(ctx context.Context, filter domain.QueueFilter) (*domain.Page, error)
	Approve(ctx context.Context, admin domain.Actor, id, notes string) (*domain.Property, error)
	Reject(ctx context.Context, admin domain.Actor, id, reason string) (*domain.Property, error)
	Remoderate(ctx context.Context, admin domain.Actor, id string) (*domain.Property, moderation.Summary, error)
	Stats(ctx context.Context) (*domain.ModerationStats, error)
}

// ModerationHandler serves the admin moderation routes.
type ModerationHandler struct {
	svc    ModerationService
	logger *logger.Logger
}

func NewModerationHandler(svc ModerationService, log *logger.Logger) *ModerationHandler {
	return &ModerationHandler{svc: svc, logger: log.Named("ModerationHandler")}
}

type approveRequest struct {
	Notes string `json:"notes"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Queue handles GET /api/admin/moderation/queue.
func (h *ModerationHandler) Queue(w http.ResponseWriter, r *http.Request) {
	filter := domain.QueueFilter{SortBy: r.URL.Query().Get("sort_by")}
	var err error
	if filter.Page, err = queryInt(r, "page"); err != nil {
		fail(w, h.logger, "ModerationQueue", err)
		return
	}
	if filter.PerPage, err = queryInt(r, "per_page"); err != nil {
		fail(w, h.logger, "ModerationQueue", err)
		return
	}
	page, err := h.svc.Queue(r.Context(), filter)
	if err != nil {
		fail(w, h.logger, "ModerationQueue", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page))
}

// Approve handles PUT /api/admin/moderation/{id}/approve. The body is
// optional.
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		fail(w, h.logger, "ApproveProperty", err)
		return
	}
	p, err := h.svc.Approve(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		fail(w, h.logger, "ApproveProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(p))
}

// Reject handles PUT /api/admin/moderation/{id}/reject.
func (h *ModerationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, h.logger, "RejectProperty", err)
		return
	}
	p, err := h.svc.Reject(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		fail(w, h.logger, "RejectProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(p))
}

// Remoderate handles POST /api/admin/moderation/{id}/remoderate.
func (h *ModerationHandler) Remoderate(w http.ResponseWriter, r *http.Request) {
	p, summary, err := h.svc.Remoderate(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, h.logger, "RemoderateProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, moderatedResponse{Property: toPropertyResponse(p), Moderation: &summary})
}

// Stats handles GET /api/admin/moderation/stats.
func (h *ModerationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		fail(w, h.logger, "ModerationStats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
