package mongodb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/moderation"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

const propertyCollectionName = "properties"

// PropertyRepository implements domain.PropertyRepository using MongoDB.
type PropertyRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewPropertyRepository creates the repository and ensures its indexes.
func NewPropertyRepository(db *mongo.Database, log *logger.Logger) (*PropertyRepository, error) {
	collection := db.Collection(propertyCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "landlord_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "moderation_status", Value: 1}, {Key: "moderation_score", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "price", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for properties collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for properties collection")
	}

	return &PropertyRepository{
		collection: collection,
		logger:     log.Named("PropertyRepository"),
	}, nil
}

// Create inserts a new property, assigning an ID and timestamps when unset.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	if _, err := r.collection.InsertOne(ctx, fromDomainProperty(p)); err != nil {
		r.logger.Error("Failed to insert property into DB", zap.Error(err))
		return fmt.Errorf("%w: insert property: %v", domain.ErrRepository, err)
	}
	r.logger.Info("Property created in DB", zap.String("property_id", p.ID.Hex()), zap.String("landlord_id", p.LandlordID))
	return nil
}

// GetByID retrieves a property by its ID.
func (r *PropertyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Property, error) {
	var doc propertyDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get property by ID from DB", zap.Error(err), zap.String("property_id", id.Hex()))
		return nil, fmt.Errorf("%w: find property: %v", domain.ErrRepository, err)
	}
	return doc.toDomainProperty(), nil
}

// Update writes the editable and moderation fields of p. The view counter is
// only changed by IncrementViews.
func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	if p.ID.IsZero() {
		return fmt.Errorf("%w: cannot update property without ID", domain.ErrInvalidInput)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, fromDomainProperty(p).updatePayload())
	if err != nil {
		r.logger.Error("Failed to update property in DB", zap.Error(err), zap.String("property_id", p.ID.Hex()))
		return fmt.Errorf("%w: update property: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug("Property updated in DB", zap.String("property_id", p.ID.Hex()))
	return nil
}

// Delete removes a property.
func (r *PropertyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete property from DB", zap.Error(err), zap.String("property_id", id.Hex()))
		return fmt.Errorf("%w: delete property: %v", domain.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Property deleted from DB", zap.String("property_id", id.Hex()))
	return nil
}

// IncrementViews bumps the view counter atomically.
func (r *PropertyRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("%w: increment views: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Find returns one page of properties matching filter and the total count.
func (r *PropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	filter.Normalize()
	findOptions := options.Find().
		SetSort(listingSort(filter.SortBy)).
		SetSkip(domain.Skip(filter.Page, filter.PerPage)).
		SetLimit(int64(filter.PerPage))

	return r.findPage(ctx, buildListingQuery(filter), findOptions)
}

// FindByModerationStatus returns one page of properties in the given moderation state.
func (r *PropertyRepository) FindByModerationStatus(ctx context.Context, status moderation.Status, filter domain.QueueFilter) ([]*domain.Property, int64, error) {
	filter.Normalize()
	findOptions := options.Find().
		SetSort(queueSort(filter.SortBy)).
		SetSkip(domain.Skip(filter.Page, filter.PerPage)).
		SetLimit(int64(filter.PerPage))

	return r.findPage(ctx, bson.M{"moderation_status": string(status)}, findOptions)
}

func (r *PropertyRepository) findPage(ctx context.Context, query bson.M, findOptions *options.FindOptions) ([]*domain.Property, int64, error) {
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to find properties in DB", zap.Error(err), zap.Any("query", query))
		return nil, 0, fmt.Errorf("%w: find properties: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*propertyDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode properties from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: decode properties: %v", domain.ErrRepository, err)
	}

	properties := make([]*domain.Property, len(docs))
	for i, doc := range docs {
		properties[i] = doc.toDomainProperty()
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count properties in DB", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: count properties: %v", domain.ErrRepository, err)
	}
	return properties, total, nil
}

// ModerationStats aggregates counts per moderation status and the average score.
func (r *PropertyRepository) ModerationStats(ctx context.Context) (*domain.ModerationStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$moderation_status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "score_sum", Value: bson.D{{Key: "$sum", Value: "$moderation_score"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate moderation stats", zap.Error(err))
		return nil, fmt.Errorf("%w: aggregate moderation stats: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Status   string `bson:"_id"`
		Count    int64  `bson:"count"`
		ScoreSum int64  `bson:"score_sum"`
	}
	if err = cursor.All(ctx, &groups); err != nil {
		r.logger.Error("Failed to decode moderation stats", zap.Error(err))
		return nil, fmt.Errorf("%w: decode moderation stats: %v", domain.ErrRepository, err)
	}

	stats := &domain.ModerationStats{ByStatus: map[moderation.Status]int64{}}
	var scoreSum int64
	for _, g := range groups {
		stats.Total += g.Count
		scoreSum += g.ScoreSum
		if g.Status != "" {
			stats.ByStatus[moderation.Status(g.Status)] += g.Count
		}
	}
	stats.Pending = stats.ByStatus[moderation.StatusPendingReview]
	if stats.Total > 0 {
		stats.AverageScore = math.Round(float64(scoreSum)/float64(stats.Total)*100) / 100
	}
	return stats, nil
}

func buildListingQuery(f domain.PropertyFilter) bson.M {
	query := bson.M{}
	if f.Status != nil {
		query["status"] = string(*f.Status)
	}
	if f.LandlordID != "" {
		query["landlord_id"] = f.LandlordID
	}
	if f.City != "" {
		query["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.City) + "$", Options: "i"}
	}
	if f.PropertyType != "" {
		query["property_type"] = f.PropertyType
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}
	if f.MinBedrooms != nil {
		query["bedrooms"] = bson.M{"$gte": *f.MinBedrooms}
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"address": re},
		}
	}
	return query
}

func listingSort(sortBy string) bson.D {
	switch sortBy {
	case domain.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case domain.SortBedrooms:
		return bson.D{{Key: "bedrooms", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func queueSort(sortBy string) bson.D {
	switch sortBy {
	case domain.QueueSortScoreHigh:
		return bson.D{{Key: "moderation_score", Value: -1}, {Key: "created_at", Value: 1}}
	case domain.QueueSortNewest:
		return bson.D{{Key: "created_at", Value: -1}}
	case domain.QueueSortOldest:
		return bson.D{{Key: "created_at", Value: 1}}
	default:
		return bson.D{{Key: "moderation_score", Value: 1}, {Key: "created_at", Value: 1}}
	}
}
