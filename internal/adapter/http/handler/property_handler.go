package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
	"github.com/Dee-Olulo/House-hunting-platform/internal/usecase"
)

const (
	maxUploadBytes  = usecase.MaxVideoBytes + 1<<20
	multipartMemory = 32 << 20
	uploadFormField = "file"
)

// PropertyService is the listing API the handlers depend on.
type PropertyService interface {
	CreateProperty(ctx context.Context, landlord domain.Actor, in usecase.PropertyInput) (*domain.Property, moderation.Summary, error)
	GetProperty(ctx context.Context, viewer domain.Actor, id string) (*domain.Property, error)
	ListProperties(ctx context.Context, filter domain.PropertyFilter) (*domain.Page, error)
	ListLandlordProperties(ctx context.Context, landlordID string, page, perPage int) (*domain.Page, error)
	UpdateProperty(ctx context.Context, landlord domain.Actor, id string, in usecase.PropertyInput) (*domain.Property, *moderation.Summary, error)
	DeleteProperty(ctx context.Context, actor domain.Actor, id string) error
	PreviewModeration(in usecase.PropertyInput) (moderation.Summary, error)
	UploadMedia(ctx context.Context, landlord domain.Actor, filename, contentType string, data []byte) (string, error)
}

// PropertyHandler serves the public and landlord listing routes.
type PropertyHandler struct {
	svc    PropertyService
	logger *logger.Logger
}

func NewPropertyHandler(svc PropertyService, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, logger: log.Named("PropertyHandler")}
}

// List handles GET /api/properties.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := propertyFilterFromQuery(r)
	if err != nil {
		fail(w, h.logger, "ListProperties", err)
		return
	}
	page, err := h.svc.ListProperties(r.Context(), filter)
	if err != nil {
		fail(w, h.logger, "ListProperties", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page))
}

// Get handles GET /api/properties/{id}.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProperty(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, h.logger, "GetProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(p))
}

// Mine handles GET /api/properties/mine.
func (h *PropertyHandler) Mine(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		fail(w, h.logger, "ListLandlordProperties", err)
		return
	}
	perPage, err := queryInt(r, "per_page")
	if err != nil {
		fail(w, h.logger, "ListLandlordProperties", err)
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	res, err := h.svc.ListLandlordProperties(r.Context(), actor.UserID, page, perPage)
	if err != nil {
		fail(w, h.logger, "ListLandlordProperties", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(res))
}

// Create handles POST /api/properties.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.PropertyInput
	if err := decodeJSON(r, &in); err != nil {
		fail(w, h.logger, "CreateProperty", err)
		return
	}
	p, summary, err := h.svc.CreateProperty(r.Context(), middleware.ActorFromContext(r.Context()), in)
	if err != nil {
		fail(w, h.logger, "CreateProperty", err)
		return
	}
	writeJSON(w, http.StatusCreated, moderatedResponse{Property: toPropertyResponse(p), Moderation: &summary})
}

// Update handles PUT /api/properties/{id}.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.PropertyInput
	if err := decodeJSON(r, &in); err != nil {
		fail(w, h.logger, "UpdateProperty", err)
		return
	}
	p, summary, err := h.svc.UpdateProperty(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, h.logger, "UpdateProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, moderatedResponse{Property: toPropertyResponse(p), Moderation: summary})
}

// Delete handles DELETE /api/properties/{id}.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProperty(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		fail(w, h.logger, "DeleteProperty", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles POST /api/moderation/preview.
func (h *PropertyHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var in usecase.PropertyInput
	if err := decodeJSON(r, &in); err != nil {
		fail(w, h.logger, "PreviewModeration", err)
		return
	}
	summary, err := h.svc.PreviewModeration(in)
	if err != nil {
		fail(w, h.logger, "PreviewModeration", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// UploadMedia handles POST /api/properties/media as multipart/form-data
// with the file under "file".
func (h *PropertyHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form file \""+uploadFormField+"\"")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.svc.UploadMedia(r.Context(), middleware.ActorFromContext(r.Context()), header.Filename, contentType, data)
	if err != nil {
		fail(w, h.logger, "UploadMedia", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url, "content_type": contentType})
}

func propertyFilterFromQuery(r *http.Request) (domain.PropertyFilter, error) {
	q := r.URL.Query()
	f := domain.PropertyFilter{
		City:         q.Get("city"),
		PropertyType: q.Get("property_type"),
		Search:       q.Get("search"),
		SortBy:       q.Get("sort_by"),
	}
	var err error
	if f.MinPrice, err = queryFloatPtr(r, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloatPtr(r, "max_price"); err != nil {
		return f, err
	}
	if f.MinBedrooms, err = queryIntPtr(r, "bedrooms"); err != nil {
		return f, err
	}
	if f.Page, err = queryInt(r, "page"); err != nil {
		return f, err
	}
	if f.PerPage, err = queryInt(r, "per_page"); err != nil {
		return f, err
	}
	return f, nil
}
