package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewStatusVisible ReviewStatus = "visible"
	ReviewStatusHidden  ReviewStatus = "hidden"
	ReviewStatusDeleted ReviewStatus = "deleted"
)

// ValidReviewTags is the predefined tag vocabulary for passenger reviews of
// drivers. A review may carry at most MaxReviewTags of these.
var ValidReviewTags = []string{
	"safe_driving",
	"clean_vehicle",
	"punctual",
	"polite",
	"good_communication",
	"helpful",
	"smooth_ride",
	"good_music",
	"route_knowledge",
}

type Review struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	AuthorID    primitive.ObjectID `json:"author_id" bson:"author_id" validate:"required"`
	DriverID    primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	Rating      int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Text        string             `json:"text" bson:"text"`
	Tags        []string           `json:"tags" bson:"tags"`
	Status      ReviewStatus       `json:"status" bson:"status"`
	ReportCount int                `json:"report_count" bson:"report_count"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// EditableUntil is the end of the author's edit window, anchored to CreatedAt.
// Edits never extend it.
func (r *Review) EditableUntil(window time.Duration) time.Time {
	return r.CreatedAt.Add(window)
}

// IsEditableBy reports whether the author may still edit or delete the review
// at instant now. Admin visibility changes are not bound by this window.
func (r *Review) IsEditableBy(authorID primitive.ObjectID, now time.Time, window time.Duration) bool {
	return r.AuthorID == authorID && r.Status != ReviewStatusDeleted && now.Before(r.EditableUntil(window))
}

// ModerationState is the moderation overlay on top of the review status. It is
// derived from (ReportCount, ResolvedAt) rather than stored, so the two can
// never drift apart.
type ModerationState string

const (
	ModerationUnreported ModerationState = "unreported"
	ModerationReported   ModerationState = "reported"
	ModerationEscalated  ModerationState = "escalated"
	ModerationResolved   ModerationState = "resolved"
)

// ModerationStateOf derives the moderation overlay state for a review given
// the configured escalation threshold.
func (r *Review) ModerationStateOf(escalationThreshold int) ModerationState {
	switch {
	case r.ResolvedAt != nil:
		return ModerationResolved
	case r.ReportCount >= escalationThreshold:
		return ModerationEscalated
	case r.ReportCount >= 1:
		return ModerationReported
	default:
		return ModerationUnreported
	}
}
