package handlers

import (
	"campusride/internal/services"
	"campusride/internal/utils"
	"campusride/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	ratingService services.RatingService
}

func NewReviewHandler(reviewService services.ReviewService, ratingService services.RatingService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		ratingService: ratingService,
	}
}

// CreateReview creates a passenger's review of a completed trip
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	tripID, ok := paramObjectID(c, "tripId", "Invalid trip ID")
	if !ok {
		return
	}
	authorID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request services.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	request.TripID = tripID

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), authorID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Review created successfully", review)
}

// GetReview returns a single review by ID
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := paramObjectID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review retrieved successfully", review)
}

// GetMyReview returns the caller's review of the trip, if any
func (h *ReviewHandler) GetMyReview(c *gin.Context) {
	tripID, ok := paramObjectID(c, "tripId", "Invalid trip ID")
	if !ok {
		return
	}
	authorID, ok := contextUserID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.GetMyReview(c.Request.Context(), tripID, authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review retrieved successfully", review)
}

// EditReview applies a partial update within the author's edit window
func (h *ReviewHandler) EditReview(c *gin.Context) {
	reviewID, ok := paramObjectID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}
	authorID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request services.EditReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	review, err := h.reviewService.EditReview(c.Request.Context(), reviewID, authorID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review updated successfully", review)
}

// DeleteReview soft-deletes the author's review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := paramObjectID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}
	authorID, ok := contextUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, authorID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review deleted successfully", gin.H{"deleted": true})
}

// ListDriverReviews returns the driver's visible reviews, newest first
func (h *ReviewHandler) ListDriverReviews(c *gin.Context) {
	driverID, ok := paramObjectID(c, "driverId", "Invalid driver ID")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListDriverReviews(c.Request.Context(), driverID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(reviews),
	}
	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", reviews, meta)
}

// GetDriverRating returns the driver's rating aggregate
func (h *ReviewHandler) GetDriverRating(c *gin.Context) {
	driverID, ok := paramObjectID(c, "driverId", "Invalid driver ID")
	if !ok {
		return
	}

	aggregate, err := h.ratingService.GetAggregate(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating retrieved successfully", gin.H{
		"driver_id":      aggregate.DriverID.Hex(),
		"avg_rating":     aggregate.AvgRating,
		"display_rating": aggregate.DisplayRating(),
		"count":          aggregate.Count,
		"histogram":      aggregate.Histogram,
		"updated_at":     aggregate.UpdatedAt,
	})
}

// paramObjectID parses a path parameter as an ObjectID, writing the error
// response on failure.
func paramObjectID(c *gin.Context, name, errMsg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, errMsg)
		return primitive.NilObjectID, false
	}
	return id, true
}

// contextUserID returns the authenticated user ID set by the auth middleware.
func contextUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	id, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func validationDetails(errs validators.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		details[e.Field] = e.Message
	}
	return details
}
