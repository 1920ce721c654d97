package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/handler"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/metrics"
	"github.com/Dee-Olulo/House-hunting-platform/internal/usecase"
)

const secret = "router-test-secret"

var (
	landlord = domain.Actor{UserID: "landlord-1", Email: "landlord-1@example.com", Role: domain.RoleLandlord}
	admin    = domain.Actor{UserID: "admin-1", Email: "admin-1@example.com", Role: domain.RoleAdmin}
	tenant   = domain.Actor{UserID: "tenant-1", Email: "tenant-1@example.com", Role: domain.RoleTenant}
)

type testServer struct {
	props *MockPropertyService
	mods  *MockModerationService
	mux   *chi.Mux
}

func newTestServer(health func(context.Context) error) *testServer {
	log := logger.NewNop()
	s := &testServer{props: new(MockPropertyService), mods: new(MockModerationService)}
	s.mux = NewRouter(Options{
		Property:   handler.NewPropertyHandler(s.props, log),
		Moderation: handler.NewModerationHandler(s.mods, log),
		JWTSecret:  secret,
		Metrics:    metrics.NewMetricsManager("test"),
		Logger:     log,
		Health:     health,
	})
	return s
}

func tokenFor(t *testing.T, a domain.Actor) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: a.UserID,
		Role:   string(a.Role),
		Email:  a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, body string, as *domain.Actor) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *as))
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sampleProperty(owner string) *domain.Property {
	price := 45000.0
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Property{
		ID:               primitive.NewObjectID(),
		LandlordID:       owner,
		Title:            "Modern 2BR Apartment in Westlands",
		City:             "Nairobi",
		Price:            &price,
		Status:           domain.PropertyStatusActive,
		ModerationStatus: moderation.StatusApproved,
		ModerationScore:  125,
		ModeratedAt:      &at,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(nil)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	s = newTestServer(func(context.Context) error { return errors.New("mongo down") })
	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListProperties_ParsesQuery(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	s.props.On("ListProperties", mock.Anything, mock.MatchedBy(func(f domain.PropertyFilter) bool {
		return f.City == "Nairobi" && f.PropertyType == "apartment" &&
			f.MinPrice != nil && *f.MinPrice == 1000 && f.MaxPrice == nil &&
			f.MinBedrooms != nil && *f.MinBedrooms == 2 &&
			f.SortBy == domain.SortPriceLow && f.Page == 2 && f.PerPage == 10
	})).Return(&domain.Page{Items: []*domain.Property{p}, Total: 11, Page: 2, PerPage: 10}, nil)

	rec := s.do(t, http.MethodGet, "/api/properties?city=Nairobi&property_type=apartment&min_price=1000&bedrooms=2&sort_by=price_low&page=2&per_page=10", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, 11.0, body["total"])
	assert.Equal(t, 2.0, body["total_pages"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, p.ID.Hex(), item["id"])
	assert.Equal(t, "approved", item["moderation_status"])
	assert.Equal(t, []any{}, item["images"])
	_, leaked := item["landlord_email"]
	assert.False(t, leaked)
}

func TestListProperties_BadNumber(t *testing.T) {
	s := newTestServer(nil)
	rec := s.do(t, http.MethodGet, "/api/properties?min_price=cheap", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "min_price must be a number")
	s.props.AssertNotCalled(t, "ListProperties", mock.Anything, mock.Anything)
}

func TestGetProperty(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	s.props.On("GetProperty", mock.Anything, domain.Actor{}, p.ID.Hex()).Return(p, nil)
	s.props.On("GetProperty", mock.Anything, tenant, "missing").Return(nil, domain.ErrNotFound)

	rec := s.do(t, http.MethodGet, "/api/properties/"+p.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.Title, decode(t, rec)["title"])

	rec = s.do(t, http.MethodGet, "/api/properties/missing", "", &tenant)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProperty(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	summary := moderation.Summary{Status: moderation.StatusApproved, Score: 125, Message: "Property approved automatically", Issues: []string{}}
	s.props.On("CreateProperty", mock.Anything, landlord, mock.MatchedBy(func(in usecase.PropertyInput) bool {
		return in.Title != nil && *in.Title == "Modern 2BR" && in.Price != nil && *in.Price == 45000 &&
			in.Images != nil && len(*in.Images) == 2
	})).Return(p, summary, nil)

	body := `{"title":"Modern 2BR","price":45000,"images":["a.jpg","b.jpg"],"unknown_field":true}`

	rec := s.do(t, http.MethodPost, "/api/properties", body, &landlord)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, p.ID.Hex(), out["property"].(map[string]any)["id"])
	assert.Equal(t, 125.0, out["moderation"].(map[string]any)["score"])
	assert.Equal(t, false, out["moderation"].(map[string]any)["action_required"])

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/properties", body, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/properties", body, &tenant).Code)
}

func TestCreateProperty_TypeMismatchIsBadRequest(t *testing.T) {
	s := newTestServer(nil)

	rec := s.do(t, http.MethodPost, "/api/properties", `{"title":"x","price":"45000"}`, &landlord)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], `field "price"`)

	rec = s.do(t, http.MethodPost, "/api/properties", `{"title":`, &landlord)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/properties", `{} {}`, &landlord)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.props.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProperty(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	s.props.On("UpdateProperty", mock.Anything, landlord, p.ID.Hex(), mock.Anything).Return(p, nil, nil).Once()

	rec := s.do(t, http.MethodPut, "/api/properties/"+p.ID.Hex(), `{"amenities":["wifi"]}`, &landlord)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	_, hasModeration := out["moderation"]
	assert.False(t, hasModeration)

	other := domain.Actor{UserID: "landlord-2", Email: "landlord-2@example.com", Role: domain.RoleLandlord}
	s.props.On("UpdateProperty", mock.Anything, other, p.ID.Hex(), mock.Anything).Return(nil, nil, domain.ErrForbidden)
	rec = s.do(t, http.MethodPut, "/api/properties/"+p.ID.Hex(), `{"title":"mine"}`, &other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteProperty(t *testing.T) {
	s := newTestServer(nil)
	s.props.On("DeleteProperty", mock.Anything, admin, "abc").Return(nil)
	s.props.On("DeleteProperty", mock.Anything, landlord, "boom").Return(errors.New("mongo exploded"))

	rec := s.do(t, http.MethodDelete, "/api/properties/abc", "", &admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/properties/boom", "", &landlord)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestMine(t *testing.T) {
	s := newTestServer(nil)
	s.props.On("ListLandlordProperties", mock.Anything, "landlord-1", 3, 5).
		Return(&domain.Page{Items: []*domain.Property{}, Total: 0, Page: 3, PerPage: 5}, nil)

	rec := s.do(t, http.MethodGet, "/api/properties/mine?page=3&per_page=5", "", &landlord)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["items"])
	s.props.AssertNotCalled(t, "GetProperty", mock.Anything, mock.Anything, mock.Anything)
}

func TestPreviewIsPublic(t *testing.T) {
	s := newTestServer(nil)
	summary := moderation.Summary{Status: moderation.StatusPendingReview, Score: 55, ActionRequired: true, Issues: []string{"Price below typical range"}}
	s.props.On("PreviewModeration", mock.Anything).Return(summary, nil)

	rec := s.do(t, http.MethodPost, "/api/moderation/preview", `{"price":4000}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "pending_review", out["status"])
	assert.Equal(t, []any{"Price below typical range"}, out["issues"])
}

func TestUploadMedia(t *testing.T) {
	s := newTestServer(nil)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	s.props.On("UploadMedia", mock.Anything, landlord, "front.png", "image/png", png).
		Return("http://minio:9000/property-media/images/landlord-1/x.png", nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "front.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/properties/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, landlord))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "http://minio:9000/property-media/images/landlord-1/x.png", decode(t, rec)["url"])
}

func TestUploadMedia_MissingFile(t *testing.T) {
	s := newTestServer(nil)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/properties/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, landlord))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	s := newTestServer(nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/admin/moderation/queue", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/moderation/queue", "", &landlord).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, "/api/admin/moderation/abc/approve", "", &landlord).Code)
	s.mods.AssertNotCalled(t, "Queue", mock.Anything, mock.Anything)
}

func TestModerationQueue(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	p.ModerationStatus = moderation.StatusPendingReview
	s.mods.On("Queue", mock.Anything, domain.QueueFilter{SortBy: "oldest", Page: 1, PerPage: 50}).
		Return(&domain.Page{Items: []*domain.Property{p}, Total: 1, Page: 1, PerPage: 50}, nil)

	rec := s.do(t, http.MethodGet, "/api/admin/moderation/queue?sort_by=oldest&page=1&per_page=50", "", &admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode(t, rec)["total"])
}

func TestApprove_BodyIsOptional(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	s.mods.On("Approve", mock.Anything, admin, p.ID.Hex(), "").Return(p, nil).Once()
	s.mods.On("Approve", mock.Anything, admin, p.ID.Hex(), "Verified on site").Return(p, nil).Once()

	rec := s.do(t, http.MethodPut, "/api/admin/moderation/"+p.ID.Hex()+"/approve", "", &admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/admin/moderation/"+p.ID.Hex()+"/approve", `{"notes":"Verified on site"}`, &admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	s.mods.AssertExpectations(t)
}

func TestReject(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	s.mods.On("Reject", mock.Anything, admin, p.ID.Hex(), "").Return(nil, domain.ErrInvalidInput)
	s.mods.On("Reject", mock.Anything, admin, p.ID.Hex(), "Fake photos").Return(p, nil)

	rec := s.do(t, http.MethodPut, "/api/admin/moderation/"+p.ID.Hex()+"/reject", `{"reason":""}`, &admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/admin/moderation/"+p.ID.Hex()+"/reject", "", &admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/admin/moderation/"+p.ID.Hex()+"/reject", `{"reason":"Fake photos"}`, &admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoderateAndStats(t *testing.T) {
	s := newTestServer(nil)
	p := sampleProperty("landlord-1")
	s.mods.On("Remoderate", mock.Anything, admin, p.ID.Hex()).
		Return(p, moderation.Summary{Status: moderation.StatusApproved, Score: 125, Issues: []string{}}, nil)
	s.mods.On("Stats", mock.Anything).Return(&domain.ModerationStats{
		Total:        4,
		ByStatus:     map[moderation.Status]int64{moderation.StatusApproved: 3, moderation.StatusPendingReview: 1, moderation.StatusRejected: 0},
		Pending:      1,
		AverageScore: 97.25,
	}, nil)

	rec := s.do(t, http.MethodPost, "/api/admin/moderation/"+p.ID.Hex()+"/remoderate", "", &admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 125.0, decode(t, rec)["moderation"].(map[string]any)["score"])

	rec = s.do(t, http.MethodGet, "/api/admin/moderation/stats", "", &admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"total_properties": 4,
		"by_status": {"approved": 3, "pending_review": 1, "rejected": 0},
		"pending_review": 1,
		"average_score": 97.25
	}`, rec.Body.String())
}
