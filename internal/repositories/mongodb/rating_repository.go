package mongodb

import (
	"context"
	"fmt"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/services"
	"campusride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ratingRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRatingRepository(db *mongo.Database, cache services.CacheService) interfaces.RatingRepository {
	return &ratingRepository{
		collection: db.Collection("rating_aggregates"),
		cache:      cache,
	}
}

func (r *ratingRepository) Upsert(ctx context.Context, aggregate *models.RatingAggregate) error {
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": aggregate.DriverID}, aggregate, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert rating aggregate: %w", err)
	}

	r.invalidateAggregateCache(ctx, aggregate.DriverID)

	return nil
}

func (r *ratingRepository) GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	cacheKey := fmt.Sprintf(utils.CacheKeyRatingAggregate, driverID.Hex())
	if r.cache != nil {
		var cached models.RatingAggregate
		if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var aggregate models.RatingAggregate
	err := r.collection.FindOne(ctx, bson.M{"_id": driverID}).Decode(&aggregate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.EmptyRatingAggregate(driverID), nil
		}
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, &aggregate, utils.RatingAggregateTTL)
	}

	return &aggregate, nil
}

func (r *ratingRepository) invalidateAggregateCache(ctx context.Context, driverID primitive.ObjectID) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf(utils.CacheKeyRatingAggregate, driverID.Hex())
		r.cache.Delete(ctx, cacheKey)
	}
}
