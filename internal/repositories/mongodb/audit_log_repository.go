package mongodb

import (
	"context"
	"fmt"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditLogRepository struct {
	collection *mongo.Collection
}

func NewAuditLogRepository(db *mongo.Database) interfaces.AuditLogRepository {
	return &auditLogRepository{
		collection: db.Collection("audit_logs"),
	}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	entry.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append audit log entry: %w", err)
	}

	return nil
}

func (r *auditLogRepository) GetTip(ctx context.Context) (*models.AuditLogEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})

	var entry models.AuditLogEntry
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get audit log tip: %w", err)
	}

	return &entry, nil
}

func (r *auditLogRepository) List(ctx context.Context, filter *models.AuditLogFilter, params *utils.PaginationParams) ([]*models.AuditLogEntry, int64, error) {
	query := buildAuditFilter(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit log entries: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.GetLimit())).
		SetSort(bson.D{{Key: "seq", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find audit log entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditLogEntry
	for cursor.Next(ctx) {
		var entry models.AuditLogEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, 0, fmt.Errorf("failed to decode audit log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, total, nil
}

func (r *auditLogRepository) Walk(ctx context.Context, filter *models.AuditLogFilter, fn func(*models.AuditLogEntry) error) error {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	cursor, err := r.collection.Find(ctx, buildAuditFilter(filter), opts)
	if err != nil {
		return fmt.Errorf("failed to walk audit log: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var entry models.AuditLogEntry
		if err := cursor.Decode(&entry); err != nil {
			return fmt.Errorf("failed to decode audit log entry: %w", err)
		}
		if err := fn(&entry); err != nil {
			return err
		}
	}

	return cursor.Err()
}

func buildAuditFilter(filter *models.AuditLogFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return query
	}

	if filter.ActorID != nil {
		query["actor.id"] = *filter.ActorID
	}
	if filter.Entity != "" {
		query["entity.type"] = filter.Entity
	}
	if filter.EntityID != "" {
		query["entity.id"] = filter.EntityID
	}

	when := bson.M{}
	if filter.From != nil {
		when["$gte"] = *filter.From
	}
	if filter.To != nil {
		when["$lte"] = *filter.To
	}
	if len(when) > 0 {
		query["when"] = when
	}

	return query
}
