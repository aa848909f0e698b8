package handlers

import (
	"campusride/internal/models"
	"campusride/internal/services"
	"campusride/internal/utils"
	"campusride/internal/validators"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationService services.ModerationService
}

func NewModerationHandler(moderationService services.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
	}
}

// ReportReview files a report against a review. Repeated reports by the same
// user return the original outcome.
func (h *ModerationHandler) ReportReview(c *gin.Context) {
	reviewID, ok := paramObjectID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}
	reporterID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request services.ReportReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	result, err := h.moderationService.ReportReview(c.Request.Context(), reviewID, reporterID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Report recorded", result)
}

// ListReports returns the reports filed against a review (admin only)
func (h *ModerationHandler) ListReports(c *gin.Context) {
	reviewID, ok := paramObjectID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reports, total, err := h.moderationService.ListReports(c.Request.Context(), reviewID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(reports),
	}
	utils.SuccessResponseWithMeta(c, "Reports retrieved successfully", reports, meta)
}

// ListNotes returns moderation notes for an entity (admin only)
func (h *ModerationHandler) ListNotes(c *gin.Context) {
	entityType := models.ModerationEntityType(c.Query("entity"))
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		utils.BadRequestResponse(c, "entity and entity_id query parameters are required")
		return
	}

	params := utils.GetPaginationParams(c)
	notes, total, err := h.moderationService.ListNotes(c.Request.Context(), entityType, entityID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(notes),
	}
	utils.SuccessResponseWithMeta(c, "Notes retrieved successfully", notes, meta)
}
