package handlers

import (
	"time"

	"campusride/internal/models"
	"campusride/internal/services"
	"campusride/internal/utils"
	"campusride/internal/validators"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

type visibilityRequest struct {
	Action string `json:"action" validate:"required,oneof=hide unhide"`
	Reason string `json:"reason" validate:"required,admin_reason"`
}

// SetReviewVisibility hides or unhides a review with an audited reason
func (h *AdminHandler) SetReviewVisibility(c *gin.Context) {
	reviewID, ok := paramObjectID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request visibilityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	view, correlationID, err := h.adminService.SetReviewVisibility(
		c.Request.Context(), adminID, reviewID, request.Action == "hide", request.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review visibility updated", gin.H{
		"review":         view,
		"correlation_id": correlationID,
	})
}

type suspensionRequest struct {
	Action string `json:"action" validate:"required,oneof=suspend unsuspend"`
	Reason string `json:"reason" validate:"required,admin_reason"`
}

// SetUserSuspension suspends or unsuspends a user account
func (h *AdminHandler) SetUserSuspension(c *gin.Context) {
	userID, ok := paramObjectID(c, "id", "Invalid user ID")
	if !ok {
		return
	}
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request suspensionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	result, err := h.adminService.SetUserSuspension(
		c.Request.Context(), adminID, userID, request.Action == "suspend", request.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User suspension updated", result)
}

type forceCancelRequest struct {
	Reason string `json:"reason" validate:"required,admin_reason"`
}

// ForceCancelTrip cancels a trip on behalf of an admin
func (h *AdminHandler) ForceCancelTrip(c *gin.Context) {
	tripID, ok := paramObjectID(c, "id", "Invalid trip ID")
	if !ok {
		return
	}
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request forceCancelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	result, err := h.adminService.ForceCancelTrip(c.Request.Context(), adminID, tripID, request.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip cancelled", result)
}

type correctBookingRequest struct {
	NewState string `json:"new_state" validate:"required,booking_status"`
	Reason   string `json:"reason" validate:"required,admin_reason"`
}

// CorrectBookingState applies an admin correction to a booking's state
func (h *AdminHandler) CorrectBookingState(c *gin.Context) {
	bookingID, ok := paramObjectID(c, "id", "Invalid booking ID")
	if !ok {
		return
	}
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request correctBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	result, err := h.adminService.CorrectBookingState(
		c.Request.Context(), adminID, bookingID, models.BookingStatus(request.NewState), request.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking state corrected", result)
}

type publishBanRequest struct {
	Action string     `json:"action" validate:"required,oneof=ban unban"`
	Reason string     `json:"reason" validate:"required,admin_reason"`
	Until  *time.Time `json:"until,omitempty"`
}

// SetDriverPublishBan bans or unbans a driver from publishing trips
func (h *AdminHandler) SetDriverPublishBan(c *gin.Context) {
	driverID, ok := paramObjectID(c, "id", "Invalid driver ID")
	if !ok {
		return
	}
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request publishBanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	result, err := h.adminService.SetDriverPublishBan(
		c.Request.Context(), adminID, driverID, request.Action == "ban", request.Until, request.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Publish ban updated", result)
}

type createNoteRequest struct {
	EntityType  string `json:"entity_type" validate:"required,moderation_entity"`
	EntityID    string `json:"entity_id" validate:"required"`
	Notes       string `json:"notes" validate:"required,max=4000"`
	EvidenceURL string `json:"evidence_url" validate:"omitempty,url"`
	Reason      string `json:"reason" validate:"required,admin_reason"`
}

// CreateModerationNote records an immutable admin annotation on an entity
func (h *AdminHandler) CreateModerationNote(c *gin.Context) {
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request createNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	note, correlationID, err := h.adminService.CreateModerationNote(c.Request.Context(), adminID, &services.CreateNoteRequest{
		EntityType:  models.ModerationEntityType(request.EntityType),
		EntityID:    request.EntityID,
		Notes:       request.Notes,
		EvidenceURL: request.EvidenceURL,
	}, request.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Moderation note created", gin.H{
		"note":           note,
		"correlation_id": correlationID,
	})
}

// RequestEvidenceUploadURL issues a presigned upload ticket for evidence files
func (h *AdminHandler) RequestEvidenceUploadURL(c *gin.Context) {
	adminID, ok := contextUserID(c)
	if !ok {
		return
	}

	var request services.EvidenceUploadRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	ticket, err := h.adminService.RequestEvidenceUploadURL(c.Request.Context(), adminID, &request)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Upload URL issued", ticket)
}
