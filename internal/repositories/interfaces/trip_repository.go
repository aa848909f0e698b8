package interfaces

import (
	"context"

	"campusride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)

	// ForceCancel flips the trip to cancelled under the caller's context so the change
	// joins the admin action's transaction.
	ForceCancel(ctx context.Context, id primitive.ObjectID) error
}
