package services

import (
	"context"
	"strings"
	"time"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/utils"
	"campusride/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminActionResult is the common envelope for privileged mutations: what
// changed plus the correlation ID that ties the response to its audit entry.
type AdminActionResult struct {
	CorrelationID string      `json:"correlation_id"`
	From          interface{} `json:"from,omitempty"`
	To            interface{} `json:"to,omitempty"`
}

type AdminService interface {
	// SetReviewVisibility hides or unhides a review with an audited reason.
	SetReviewVisibility(ctx context.Context, adminID, reviewID primitive.ObjectID, hide bool, reason string) (*ReviewView, string, error)

	SetUserSuspension(ctx context.Context, adminID, userID primitive.ObjectID, suspend bool, reason string) (*AdminActionResult, error)
	ForceCancelTrip(ctx context.Context, adminID, tripID primitive.ObjectID, reason string) (*AdminActionResult, error)

	// CorrectBookingState moves a booking to target if the booking state
	// machine allows the transition from its current state.
	CorrectBookingState(ctx context.Context, adminID, bookingID primitive.ObjectID, target models.BookingStatus, reason string) (*AdminActionResult, error)

	// SetDriverPublishBan bans or unbans a driver from publishing trips,
	// optionally until a deadline.
	SetDriverPublishBan(ctx context.Context, adminID, driverID primitive.ObjectID, ban bool, until *time.Time, reason string) (*AdminActionResult, error)

	CreateModerationNote(ctx context.Context, adminID primitive.ObjectID, req *CreateNoteRequest, reason string) (*models.ModerationNote, string, error)
	RequestEvidenceUploadURL(ctx context.Context, adminID primitive.ObjectID, req *EvidenceUploadRequest) (*EvidenceUploadTicket, error)
}

// EvidenceUploadTicket pairs the presigned upload with the correlation ID the
// admin passes back when attaching the evidence to a note.
type EvidenceUploadTicket struct {
	CorrelationID string            `json:"correlation_id"`
	URL           string            `json:"url"`
	Headers       map[string]string `json:"headers,omitempty"`
	ObjectURL     string            `json:"object_url"`
	ExpiresAt     time.Time         `json:"expires_at"`
}

type adminService struct {
	userRepo    interfaces.UserRepository
	tripRepo    interfaces.TripRepository
	bookingRepo interfaces.BookingRepository
	reviews     ReviewService
	moderation  ModerationService
	audit       AuditService
	log         *logger.Logger
}

func NewAdminService(
	userRepo interfaces.UserRepository,
	tripRepo interfaces.TripRepository,
	bookingRepo interfaces.BookingRepository,
	reviews ReviewService,
	moderation ModerationService,
	audit AuditService,
	log *logger.Logger,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		reviews:     reviews,
		moderation:  moderation,
		audit:       audit,
		log:         log,
	}
}

// authorize loads the acting admin and checks the action preconditions shared
// by every privileged mutation: admin role, not suspended, usable reason.
// Returns the actor identity and the normalized reason.
func (s *adminService) authorize(ctx context.Context, adminID primitive.ObjectID, reason string) (models.AuditActor, string, error) {
	actor, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return models.AuditActor{}, "", err
	}
	if actor.Role != models.RoleAdmin || actor.Suspended {
		return models.AuditActor{}, "", ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if len(reason) < utils.MinAdminReasonLength {
		return models.AuditActor{}, "", ErrInvalidReason
	}

	return models.AuditActor{ID: actor.ID, Name: actor.Name}, reason, nil
}

func (s *adminService) SetReviewVisibility(ctx context.Context, adminID, reviewID primitive.ObjectID, hide bool, reason string) (*ReviewView, string, error) {
	actor, reason, err := s.authorize(ctx, adminID, reason)
	if err != nil {
		return nil, "", err
	}

	correlationID := uuid.New().String()
	view, err := s.reviews.SetVisibility(ctx, actor, reviewID, hide, reason, correlationID)
	if err != nil {
		return nil, "", err
	}

	s.log.LogAdminAction(adminID, "review_visibility", map[string]interface{}{
		"review_id":      reviewID.Hex(),
		"hide":           hide,
		"correlation_id": correlationID,
	})

	return view, correlationID, nil
}

func (s *adminService) SetUserSuspension(ctx context.Context, adminID, userID primitive.ObjectID, suspend bool, reason string) (*AdminActionResult, error) {
	actor, reason, err := s.authorize(ctx, adminID, reason)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	action := models.AuditActionUserUnsuspend
	if suspend {
		action = models.AuditActionUserSuspend
	}

	correlationID := uuid.New().String()
	from := models.SuspensionSnapshot{Suspended: target.Suspended}
	to := models.SuspensionSnapshot{Suspended: suspend}

	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        action,
		Entity:        models.AuditEntity{Type: string(models.ModerationEntityUser), ID: userID.Hex()},
		Reason:        reason,
		From:          models.SnapshotJSON(from),
		To:            models.SnapshotJSON(to),
		CorrelationID: correlationID,
	}

	err = s.audit.RecordAction(ctx, entry, func(txCtx context.Context) error {
		return s.userRepo.SetSuspended(txCtx, userID, suspend)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogAdminAction(adminID, string(action), map[string]interface{}{
		"user_id":        userID.Hex(),
		"correlation_id": correlationID,
	})

	return &AdminActionResult{CorrelationID: correlationID, From: from, To: to}, nil
}

func (s *adminService) ForceCancelTrip(ctx context.Context, adminID, tripID primitive.ObjectID, reason string) (*AdminActionResult, error) {
	actor, reason, err := s.authorize(ctx, adminID, reason)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	correlationID := uuid.New().String()
	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        models.AuditActionTripForceCancel,
		Entity:        models.AuditEntity{Type: string(models.ModerationEntityTrip), ID: tripID.Hex()},
		Reason:        reason,
		From:          string(trip.Status),
		To:            string(models.TripStatusCancelled),
		CorrelationID: correlationID,
	}

	err = s.audit.RecordAction(ctx, entry, func(txCtx context.Context) error {
		return s.tripRepo.ForceCancel(txCtx, tripID)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogAdminAction(adminID, string(models.AuditActionTripForceCancel), map[string]interface{}{
		"trip_id":        tripID.Hex(),
		"correlation_id": correlationID,
	})

	return &AdminActionResult{CorrelationID: correlationID, From: string(trip.Status), To: string(models.TripStatusCancelled)}, nil
}

func (s *adminService) CorrectBookingState(ctx context.Context, adminID, bookingID primitive.ObjectID, target models.BookingStatus, reason string) (*AdminActionResult, error) {
	actor, reason, err := s.authorize(ctx, adminID, reason)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.CanTransitionTo(target) {
		return nil, ErrIllegalStateTransition
	}

	correlationID := uuid.New().String()
	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        models.AuditActionBookingCorrect,
		Entity:        models.AuditEntity{Type: string(models.ModerationEntityBooking), ID: bookingID.Hex()},
		Reason:        reason,
		From:          string(booking.Status),
		To:            string(target),
		CorrelationID: correlationID,
	}

	err = s.audit.RecordAction(ctx, entry, func(txCtx context.Context) error {
		return s.bookingRepo.SetStatus(txCtx, bookingID, booking.Status, target)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogAdminAction(adminID, string(models.AuditActionBookingCorrect), map[string]interface{}{
		"booking_id":     bookingID.Hex(),
		"from":           booking.Status,
		"to":             target,
		"correlation_id": correlationID,
	})

	return &AdminActionResult{CorrelationID: correlationID, From: string(booking.Status), To: string(target)}, nil
}

func (s *adminService) SetDriverPublishBan(ctx context.Context, adminID, driverID primitive.ObjectID, ban bool, until *time.Time, reason string) (*AdminActionResult, error) {
	actor, reason, err := s.authorize(ctx, adminID, reason)
	if err != nil {
		return nil, err
	}

	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	action := models.AuditActionDriverPublishUnban
	if ban {
		action = models.AuditActionDriverPublishBan
	} else {
		until = nil
	}

	correlationID := uuid.New().String()
	from := models.PublishBanSnapshot{Banned: driver.PublishBanned, Until: driver.PublishBanUntil}
	to := models.PublishBanSnapshot{Banned: ban, Until: until}

	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        action,
		Entity:        models.AuditEntity{Type: string(models.ModerationEntityDriver), ID: driverID.Hex()},
		Reason:        reason,
		From:          models.SnapshotJSON(from),
		To:            models.SnapshotJSON(to),
		CorrelationID: correlationID,
	}

	err = s.audit.RecordAction(ctx, entry, func(txCtx context.Context) error {
		return s.userRepo.SetPublishBan(txCtx, driverID, ban, until)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogAdminAction(adminID, string(action), map[string]interface{}{
		"driver_id":      driverID.Hex(),
		"correlation_id": correlationID,
	})

	return &AdminActionResult{CorrelationID: correlationID, From: from, To: to}, nil
}

func (s *adminService) CreateModerationNote(ctx context.Context, adminID primitive.ObjectID, req *CreateNoteRequest, reason string) (*models.ModerationNote, string, error) {
	actor, reason, err := s.authorize(ctx, adminID, reason)
	if err != nil {
		return nil, "", err
	}

	correlationID := uuid.New().String()
	note, err := s.moderation.CreateNote(ctx, actor, req, reason, correlationID)
	if err != nil {
		return nil, "", err
	}

	return note, correlationID, nil
}

func (s *adminService) RequestEvidenceUploadURL(ctx context.Context, adminID primitive.ObjectID, req *EvidenceUploadRequest) (*EvidenceUploadTicket, error) {
	actor, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin || actor.Suspended {
		return nil, ErrForbidden
	}

	ticket, err := s.moderation.RequestEvidenceUploadURL(ctx, adminID, req)
	if err != nil {
		return nil, err
	}

	return &EvidenceUploadTicket{
		CorrelationID: uuid.New().String(),
		URL:           ticket.URL,
		Headers:       ticket.Headers,
		ObjectURL:     ticket.ObjectURL,
		ExpiresAt:     ticket.ExpiresAt,
	}, nil
}
