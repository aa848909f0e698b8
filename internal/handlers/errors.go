package handlers

import (
	"errors"
	"net/http"

	"campusride/internal/services"
	"campusride/internal/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto stable HTTP codes.
// Unknown errors become a 500 without leaking internals to the client.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidTags),
		errors.Is(err, services.ErrInvalidReason),
		errors.Is(err, services.ErrInvalidCategory):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrDuplicateReview):
		utils.ConflictResponse(c, "DUPLICATE_REVIEW", err.Error())
	case errors.Is(err, services.ErrSelfReport):
		utils.ConflictResponse(c, "SELF_REPORT", err.Error())
	case errors.Is(err, services.ErrEditWindowExpired):
		utils.ConflictResponse(c, "EDIT_WINDOW_EXPIRED", err.Error())
	case errors.Is(err, services.ErrReviewDeleted):
		utils.ConflictResponse(c, "REVIEW_DELETED", err.Error())
	case errors.Is(err, services.ErrNotAuthor):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrTripNotEligible):
		utils.ConflictResponse(c, "TRIP_NOT_ELIGIBLE", err.Error())
	case errors.Is(err, services.ErrIllegalStateTransition):
		utils.ConflictResponse(c, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, services.ErrUpstreamUnavailable):
		utils.ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err.Error())
	case errors.Is(err, services.ErrAggregateStale):
		utils.ErrorResponse(c, http.StatusInternalServerError, "RATING_RECOMPUTE_FAILED", "the change was recorded but the rating aggregate could not be refreshed; retry the operation")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
