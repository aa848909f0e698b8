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
)

type moderationRepository struct {
	reports *mongo.Collection
	notes   *mongo.Collection
}

func NewModerationRepository(db *mongo.Database) interfaces.ModerationRepository {
	return &moderationRepository{
		reports: db.Collection("moderation_reports"),
		notes:   db.Collection("moderation_notes"),
	}
}

func (r *moderationRepository) CreateReport(ctx context.Context, report *models.ModerationReport) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()

	_, err := r.reports.InsertOne(ctx, report)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.ErrDuplicateReport
		}
		return fmt.Errorf("failed to create moderation report: %w", err)
	}

	return nil
}

func (r *moderationRepository) GetReport(ctx context.Context, reviewID, reporterID primitive.ObjectID) (*models.ModerationReport, error) {
	filter := bson.M{
		"review_id":   reviewID,
		"reporter_id": reporterID,
	}

	var report models.ModerationReport
	err := r.reports.FindOne(ctx, filter).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get moderation report: %w", err)
	}

	return &report, nil
}

func (r *moderationRepository) GetReportsByReview(ctx context.Context, reviewID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ModerationReport, int64, error) {
	filter := bson.M{"review_id": reviewID}

	total, err := r.reports.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count moderation reports: %w", err)
	}

	cursor, err := r.reports.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find moderation reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.ModerationReport
	for cursor.Next(ctx) {
		var report models.ModerationReport
		if err := cursor.Decode(&report); err != nil {
			return nil, 0, fmt.Errorf("failed to decode moderation report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, total, nil
}

func (r *moderationRepository) CreateNote(ctx context.Context, note *models.ModerationNote) error {
	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now()

	_, err := r.notes.InsertOne(ctx, note)
	if err != nil {
		return fmt.Errorf("failed to create moderation note: %w", err)
	}

	return nil
}

func (r *moderationRepository) GetNotesByEntity(ctx context.Context, entityType models.ModerationEntityType, entityID string, params *utils.PaginationParams) ([]*models.ModerationNote, int64, error) {
	filter := bson.M{
		"entity_type": entityType,
		"entity_id":   entityID,
	}

	total, err := r.notes.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count moderation notes: %w", err)
	}

	cursor, err := r.notes.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find moderation notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []*models.ModerationNote
	for cursor.Next(ctx) {
		var note models.ModerationNote
		if err := cursor.Decode(&note); err != nil {
			return nil, 0, fmt.Errorf("failed to decode moderation note: %w", err)
		}
		notes = append(notes, &note)
	}

	return notes, total, nil
}
