package validators

import (
	"fmt"
	"strings"

	"campusride/internal/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("review_tag", validateReviewTag)
	validate.RegisterValidation("report_category", validateReportCategory)
	validate.RegisterValidation("moderation_entity", validateModerationEntity)
	validate.RegisterValidation("booking_status", validateBookingStatus)
	validate.RegisterValidation("admin_reason", validateAdminReason)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationError := ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			}
			validationErrors = append(validationErrors, validationError)
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "review_tag":
		return "Unrecognized review tag"
	case "report_category":
		return "Category must be spam, abuse, or other"
	case "moderation_entity":
		return "Unrecognized entity type"
	case "booking_status":
		return "Unrecognized booking status"
	case "admin_reason":
		return "Reason must be at least 5 characters"
	case "url":
		return "Invalid URL"
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validateReviewTag(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, tag := range models.ValidReviewTags {
		if value == tag {
			return true
		}
	}
	return false
}

func validateReportCategory(fl validator.FieldLevel) bool {
	return models.IsValidReportCategory(models.ReportCategory(fl.Field().String()))
}

func validateModerationEntity(fl validator.FieldLevel) bool {
	switch models.ModerationEntityType(fl.Field().String()) {
	case models.ModerationEntityReview, models.ModerationEntityUser, models.ModerationEntityTrip,
		models.ModerationEntityBooking, models.ModerationEntityDriver:
		return true
	}
	return false
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	switch models.BookingStatus(fl.Field().String()) {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusRejected,
		models.BookingStatusCancelled, models.BookingStatusCompleted:
		return true
	}
	return false
}

// Reasons are measured after trimming so whitespace padding cannot satisfy
// the minimum.
func validateAdminReason(fl validator.FieldLevel) bool {
	return len(strings.TrimSpace(fl.Field().String())) >= 5
}
