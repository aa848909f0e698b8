package interfaces

import (
	"context"

	"campusride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingRepository interface {
	// Upsert replaces the stored aggregate for the driver.
	Upsert(ctx context.Context, aggregate *models.RatingAggregate) error

	// GetByDriverID returns the stored aggregate, or the empty aggregate if
	// the driver has never been rated.
	GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
}
