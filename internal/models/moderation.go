package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportCategory string

const (
	ReportCategorySpam  ReportCategory = "spam"
	ReportCategoryAbuse ReportCategory = "abuse"
	ReportCategoryOther ReportCategory = "other"
)

// IsValidReportCategory reports whether category is in the recognized set.
func IsValidReportCategory(category ReportCategory) bool {
	switch category {
	case ReportCategorySpam, ReportCategoryAbuse, ReportCategoryOther:
		return true
	}
	return false
}

// ModerationReport records one user's report against a review. A given
// (review, reporter) pair may report at most once; repeated submissions
// return the prior result instead of creating duplicates.
type ModerationReport struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReviewID   primitive.ObjectID `json:"review_id" bson:"review_id" validate:"required"`
	ReporterID primitive.ObjectID `json:"reporter_id" bson:"reporter_id" validate:"required"`
	Category   ReportCategory     `json:"category" bson:"category" validate:"required"`
	Reason     string             `json:"reason" bson:"reason"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

type ModerationEntityType string

const (
	ModerationEntityReview  ModerationEntityType = "review"
	ModerationEntityUser    ModerationEntityType = "user"
	ModerationEntityTrip    ModerationEntityType = "trip"
	ModerationEntityBooking ModerationEntityType = "booking"
	ModerationEntityDriver  ModerationEntityType = "driver"
)

// ModerationNote is an immutable admin annotation on an entity. It never
// mutates the target entity's state.
type ModerationNote struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	EntityType  ModerationEntityType `json:"entity_type" bson:"entity_type" validate:"required"`
	EntityID    string               `json:"entity_id" bson:"entity_id" validate:"required"`
	AuthorID    primitive.ObjectID   `json:"author_id" bson:"author_id" validate:"required"`
	Notes       string               `json:"notes" bson:"notes" validate:"required"`
	EvidenceURL string               `json:"evidence_url,omitempty" bson:"evidence_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}

// ReportResult is returned to the reporter; Reports carries the review's
// report count after the submission (the prior count on a repeat).
type ReportResult struct {
	OK       bool           `json:"ok"`
	Category ReportCategory `json:"category"`
	Reports  int            `json:"reports"`
}
