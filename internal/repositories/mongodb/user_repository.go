package mongodb

import (
	"context"
	"fmt"
	"time"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) SetSuspended(ctx context.Context, id primitive.ObjectID, suspended bool) error {
	set := bson.M{
		"suspended":  suspended,
		"updated_at": time.Now(),
	}
	if suspended {
		set["suspended_at"] = time.Now()
	} else {
		set["suspended_at"] = nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set user suspension: %w", err)
	}

	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}

	return nil
}

func (r *userRepository) SetPublishBan(ctx context.Context, id primitive.ObjectID, banned bool, until *time.Time) error {
	set := bson.M{
		"publish_banned":    banned,
		"publish_ban_until": until,
		"updated_at":        time.Now(),
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set publish ban: %w", err)
	}

	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}

	return nil
}
