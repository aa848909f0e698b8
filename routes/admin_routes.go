package routes

import (
	"campusride/internal/handlers"
	"campusride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up the privileged moderation and audit surface
func SetupAdminRoutes(r *gin.RouterGroup, jwtSecret string, adminHandler *handlers.AdminHandler, moderationHandler *handlers.ModerationHandler, auditHandler *handlers.AuditHandler) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.PATCH("/reviews/:reviewId/visibility", adminHandler.SetReviewVisibility)
		admin.GET("/reviews/:reviewId/reports", moderationHandler.ListReports)

		admin.PATCH("/users/:id/suspension", adminHandler.SetUserSuspension)
		admin.POST("/trips/:id/force-cancel", adminHandler.ForceCancelTrip)
		admin.POST("/bookings/:id/correct-state", adminHandler.CorrectBookingState)
		admin.PATCH("/drivers/:id/publish-ban", adminHandler.SetDriverPublishBan)

		admin.POST("/moderation/notes", adminHandler.CreateModerationNote)
		admin.GET("/moderation/notes", moderationHandler.ListNotes)
		admin.POST("/moderation/evidence/upload-url", adminHandler.RequestEvidenceUploadURL)

		admin.GET("/audit", auditHandler.List)
		admin.GET("/audit/export", auditHandler.Export)
		admin.GET("/audit/verify", auditHandler.Verify)
	}
}
