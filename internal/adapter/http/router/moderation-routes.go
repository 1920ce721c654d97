package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/handler"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// SetupModerationRoutes registers the admin moderation routes.
func SetupModerationRoutes(mux *chi.Mux, h *handler.ModerationHandler, jwtSecret string, log *logger.Logger) {
	mux.Route("/api/admin/moderation", func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))
		r.Use(middleware.RequireRole(log, domain.RoleAdmin))

		r.Get("/queue", h.Queue)
		r.Get("/stats", h.Stats)
		r.Put("/{id}/approve", h.Approve)
		r.Put("/{id}/reject", h.Reject)
		r.Post("/{id}/remoderate", h.Remoderate)
	})
}
