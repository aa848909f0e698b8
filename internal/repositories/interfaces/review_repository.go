package interfaces

import (
	"context"

	"campusride/internal/models"
	"campusride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	// Create inserts a review. A unique (trip_id, author_id) index makes
	// duplicate creation fail even under concurrent attempts.
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetByTripAndAuthor(ctx context.Context, tripID, authorID primitive.ObjectID) (*models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateStatus flips review visibility; resolve additionally stamps
	// resolved_at. Runs under the caller's context so it participates in an
	// ambient transaction when one is present.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus, resolve bool) error

	// IncrementReportCount bumps report_count and returns the new value.
	IncrementReportCount(ctx context.Context, id primitive.ObjectID) (int, error)

	GetVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// ScanVisibleStats recomputes the rating statistics for a driver by
	// rescanning the driver's visible reviews.
	ScanVisibleStats(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
}
