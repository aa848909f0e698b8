package services

import "errors"

// Service error taxonomy. Handlers map these to stable HTTP codes; repositories
// translate driver-level failures (duplicate keys, missing documents) into
// them so callers never inspect database errors directly.
var (
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrInvalidRating          = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidTags            = errors.New("review tags invalid")
	ErrInvalidReason          = errors.New("reason must be at least 5 characters")
	ErrInvalidCategory        = errors.New("unrecognized report category")
	ErrDuplicateReview        = errors.New("trip already reviewed by this author")
	ErrDuplicateReport        = errors.New("review already reported by this user")
	ErrSelfReport             = errors.New("authors cannot report their own review")
	ErrEditWindowExpired      = errors.New("review edit window has expired")
	ErrReviewDeleted          = errors.New("review has been deleted")
	ErrNotAuthor              = errors.New("only the author may modify this review")
	ErrTripNotEligible        = errors.New("trip is not eligible for review")
	ErrIllegalStateTransition = errors.New("booking state transition not allowed")
	ErrUpstreamUnavailable    = errors.New("upstream service unavailable")

	// ErrAggregateStale reports that a review mutation committed but the
	// driver's rating aggregate could not be recomputed. The caller should
	// retry; the stored review state is already durable.
	ErrAggregateStale = errors.New("rating aggregate could not be recomputed")
)
