package interfaces

import (
	"context"

	"campusride/internal/models"
	"campusride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ModerationRepository interface {
	// CreateReport inserts a report. A unique (review_id, reporter_id) index
	// enforces one report per reporter per review.
	CreateReport(ctx context.Context, report *models.ModerationReport) error
	GetReport(ctx context.Context, reviewID, reporterID primitive.ObjectID) (*models.ModerationReport, error)
	GetReportsByReview(ctx context.Context, reviewID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ModerationReport, int64, error)

	// CreateNote appends an immutable moderation note.
	CreateNote(ctx context.Context, note *models.ModerationNote) error
	GetNotesByEntity(ctx context.Context, entityType models.ModerationEntityType, entityID string, params *utils.PaginationParams) ([]*models.ModerationNote, int64, error)
}
