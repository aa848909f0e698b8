package utils

import "time"

// Application Constants
const (
	AppName    = "CampusRide"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Review Constants
	MinReviewRating    = 1
	MaxReviewRating    = 5
	MaxReviewTextLen   = 1000
	MaxReviewTags      = 5
	ReviewEditWindow   = 24 * time.Hour
	RatingAggregateTTL = 15 * time.Minute

	// Moderation Constants
	DefaultEscalationThreshold = 3
	MinAdminReasonLength       = 5
	MaxModerationNoteLength    = 2000
	EvidenceUploadURLTTL       = 15 * time.Minute
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidInput     = "invalid input"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrNotFound         = "not found"
	ErrValidationFailed = "validation failed"
)

// Cache Keys
const (
	CacheKeyRatingAggregate = "rating_aggregate_%s" // driver ID
	CacheKeyReviewReport    = "review_report_%s_%s" // review ID, reporter ID
)
