package routes

import (
	"campusride/internal/handlers"
	"campusride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReviewRoutes sets up the passenger and public review surface
func SetupReviewRoutes(r *gin.RouterGroup, jwtSecret string, reviewHandler *handlers.ReviewHandler, moderationHandler *handlers.ModerationHandler) {
	// Public driver surface (no auth required)
	drivers := r.Group("/drivers")
	{
		drivers.GET("/:driverId/reviews", reviewHandler.ListDriverReviews)
		drivers.GET("/:driverId/ratings", reviewHandler.GetDriverRating)
	}

	// Authenticated passenger surface
	trips := r.Group("/trips")
	trips.Use(middleware.AuthRequired(jwtSecret))
	{
		trips.POST("/:tripId/reviews", reviewHandler.CreateReview)
		trips.GET("/:tripId/reviews/me", reviewHandler.GetMyReview)
		trips.PATCH("/:tripId/reviews/:reviewId", reviewHandler.EditReview)
		trips.DELETE("/:tripId/reviews/:reviewId", reviewHandler.DeleteReview)
	}

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(jwtSecret))
	{
		reviews.GET("/:reviewId", reviewHandler.GetReview)
		reviews.POST("/:reviewId/report", moderationHandler.ReportReview)
	}
}
