package usecase

import (
	"strings"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/metrics"
)

var fixedNow = time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *MockPropertyRepository
	cache    *MockPropertyCache
	pub      *MockPublisher
	notifier *MockNotifier
	storage  *MockMediaStorage
	metrics  *metrics.MetricsManager
	deps     Dependencies
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		repo:     new(MockPropertyRepository),
		cache:    new(MockPropertyCache),
		pub:      new(MockPublisher),
		notifier: new(MockNotifier),
		storage:  new(MockMediaStorage),
		metrics:  metrics.NewMetricsManager("test"),
	}
	f.deps = Dependencies{
		Repo:      f.repo,
		Cache:     f.cache,
		Publisher: f.pub,
		Notifier:  f.notifier,
		Storage:   f.storage,
		Moderator: moderation.NewDefault(),
		Metrics:   f.metrics,
		Options:   opts,
	}
	return f
}

func (f *fixture) expectPublish(subject string) {
	f.pub.On("Publish", mock.Anything, subject, mock.AnythingOfType("usecase.PropertyEvent")).Return(nil).Once()
}

func strp(s string) *string       { return &s }
func f64(v float64) *float64      { return &v }
func intp(v int) *int             { return &v }
func listp(v ...string) *[]string { return &v }
func boolp(v bool) *bool          { return &v }

func pangram(n int) string {
	const s = "the quick brown fox jumps over the lazy dog "
	return strings.Repeat(s, n/len(s)+1)[:n]
}

// idealInput scores 125.
func idealInput() PropertyInput {
	return PropertyInput{
		Title:        strp("Modern 2BR Apartment in Westlands"),
		Description:  strp(pangram(250)),
		PropertyType: strp("Apartment"),
		Address:      strp("Waiyaki Way"),
		City:         strp("Nairobi"),
		Latitude:     f64(-1.2676),
		Longitude:    f64(36.8108),
		Price:        f64(45000),
		Bedrooms:     intp(2),
		Bathrooms:    intp(1),
		Images:       listp("a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"),
		Videos:       listp("tour.mp4"),
		Amenities:    listp("parking", " ", "wifi"),
	}
}

// borderlineInput scores 55.
func borderlineInput() PropertyInput {
	return PropertyInput{
		Title:       strp("Cosy bedsitter in Kilimani"),
		Description: strp(pangram(60)),
		Address:     strp("Argwings Kodhek Road"),
		City:        strp("Nairobi"),
		Price:       f64(4000),
		Bedrooms:    intp(1),
		Bathrooms:   intp(1),
		Images:      listp("a.jpg", "b.jpg"),
	}
}

func spamInput() PropertyInput {
	return PropertyInput{
		Title:       strp("AMAZING DEAL HOUSE"),
		Description: strp("Guaranteed returns! Act now to get this free money deal before it is gone, viewing daily."),
		Price:       f64(800),
	}
}

func mediaURL(key string) string {
	return "http://localhost:9000/property-media/" + key
}

func storedProperty(owner string, status moderation.Status) *domain.Property {
	in := borderlineInput()
	p := &domain.Property{
		ID:            primitive.NewObjectID(),
		LandlordID:    owner,
		LandlordEmail: owner + "@example.com",
		CreatedAt:     fixedNow.Add(-24 * time.Hour),
	}
	in.applyTo(p)
	p.ModerationStatus = status
	p.ModerationScore = 55
	p.Status = domain.VisibilityFor(status)
	return p
}
