package mongodb

import (
	"context"
	"fmt"
	"time"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/services"
	"campusride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewReviewRepository(db *mongo.Database, cache services.CacheService) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection("reviews"),
		cache:      cache,
	}
}

// Create persists the review as the service built it. The service owns the
// status and timestamps; the repository only assigns the document ID.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) GetByTripAndAuthor(ctx context.Context, tripID, authorID primitive.ObjectID) (*models.Review, error) {
	filter := bson.M{
		"trip_id":   tripID,
		"author_id": authorID,
	}

	var review models.Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review by trip and author: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}

	return nil
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus, resolve bool) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	if resolve {
		set["resolved_at"] = now
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}

	return nil
}

func (r *reviewRepository) IncrementReportCount(ctx context.Context, id primitive.ObjectID) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review models.Review
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"report_count": 1}},
		opts,
	).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, services.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment report count: %w", err)
	}

	return review.ReportCount, nil
}

func (r *reviewRepository) GetVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	filter := bson.M{
		"driver_id": driverID,
		"status":    models.ReviewStatusVisible,
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, 0, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

func (r *reviewRepository) ScanVisibleStats(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"driver_id": driverID,
			"status":    models.ReviewStatusVisible,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to scan visible reviews: %w", err)
	}
	defer cursor.Close(ctx)

	aggregate := models.EmptyRatingAggregate(driverID)
	var sum int64

	for cursor.Next(ctx) {
		var result struct {
			Rating int   `bson:"_id"`
			Count  int64 `bson:"count"`
		}
		if err := cursor.Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode rating bucket: %w", err)
		}

		aggregate.Histogram[result.Rating] = result.Count
		aggregate.Count += result.Count
		sum += int64(result.Rating) * result.Count
	}

	if aggregate.Count > 0 {
		aggregate.AvgRating = float64(sum) / float64(aggregate.Count)
	}
	aggregate.UpdatedAt = time.Now().UTC()

	return aggregate, nil
}
