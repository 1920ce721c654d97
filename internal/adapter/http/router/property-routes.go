package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/handler"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// SetupPropertyRoutes registers the public and landlord listing routes.
func SetupPropertyRoutes(mux *chi.Mux, h *handler.PropertyHandler, jwtSecret string, log *logger.Logger) {
	// Owners and admins may see listings that are not public yet.
	mux.Group(func(r chi.Router) {
		r.Use(middleware.OptionalJWTAuth(jwtSecret, log))
		r.Get("/api/properties", h.List)
		r.Get("/api/properties/{id}", h.Get)
		r.Post("/api/moderation/preview", h.Preview)
	})

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))
		r.Use(middleware.RequireRole(log, domain.RoleLandlord, domain.RoleAdmin))

		r.Post("/api/properties", h.Create)
		r.Get("/api/properties/mine", h.Mine)
		r.Post("/api/properties/media", h.UploadMedia)
		r.Put("/api/properties/{id}", h.Update)
		r.Delete("/api/properties/{id}", h.Delete)
	})
}
