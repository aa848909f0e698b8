package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusride/internal/config"
	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/utils"
	"campusride/pkg/logger"
	"campusride/pkg/notify"
	"campusride/pkg/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportReviewRequest struct {
	Category models.ReportCategory `json:"category" validate:"required"`
	Reason   string                `json:"reason" validate:"max=1000"`
}

type CreateNoteRequest struct {
	EntityType  models.ModerationEntityType `json:"entity_type" validate:"required"`
	EntityID    string                      `json:"entity_id" validate:"required"`
	Notes       string                      `json:"notes" validate:"required,max=4000"`
	EvidenceURL string                      `json:"evidence_url" validate:"omitempty,url"`
}

type EvidenceUploadRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"min=1"`
}

type ModerationService interface {
	// ReportReview files a report against a review. Repeat submissions by
	// the same reporter are idempotent: they return the original outcome
	// without touching the count.
	ReportReview(ctx context.Context, reviewID, reporterID primitive.ObjectID, req *ReportReviewRequest) (*models.ReportResult, error)

	ListReports(ctx context.Context, reviewID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ModerationReport, int64, error)

	// CreateNote records an immutable admin annotation and audits it.
	CreateNote(ctx context.Context, actor models.AuditActor, req *CreateNoteRequest, reason, correlationID string) (*models.ModerationNote, error)
	ListNotes(ctx context.Context, entityType models.ModerationEntityType, entityID string, params *utils.PaginationParams) ([]*models.ModerationNote, int64, error)

	// RequestEvidenceUploadURL issues a short-lived presigned upload ticket
	// for moderation evidence.
	RequestEvidenceUploadURL(ctx context.Context, adminID primitive.ObjectID, req *EvidenceUploadRequest) (*storage.UploadTicket, error)
}

type moderationService struct {
	moderationRepo interfaces.ModerationRepository
	reviewRepo     interfaces.ReviewRepository
	audit          AuditService
	txn            TxnRunner
	cache          CacheService
	evidence       storage.Provider
	notifier       notify.Notifier
	cfg            *config.ModerationConfig
	log            *logger.Logger
}

func NewModerationService(
	moderationRepo interfaces.ModerationRepository,
	reviewRepo interfaces.ReviewRepository,
	audit AuditService,
	txn TxnRunner,
	cache CacheService,
	evidence storage.Provider,
	notifier notify.Notifier,
	cfg *config.ModerationConfig,
	log *logger.Logger,
) ModerationService {
	return &moderationService{
		moderationRepo: moderationRepo,
		reviewRepo:     reviewRepo,
		audit:          audit,
		txn:            txn,
		cache:          cache,
		evidence:       evidence,
		notifier:       notifier,
		cfg:            cfg,
		log:            log,
	}
}

func (s *moderationService) ReportReview(ctx context.Context, reviewID, reporterID primitive.ObjectID, req *ReportReviewRequest) (*models.ReportResult, error) {
	if !models.IsValidReportCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == models.ReviewStatusDeleted {
		return nil, ErrNotFound
	}
	if review.AuthorID == reporterID {
		return nil, ErrSelfReport
	}

	// Fast path: a Redis guard short-circuits repeat submissions without a
	// report lookup. The unique index remains the source of truth.
	guardKey := fmt.Sprintf(utils.CacheKeyReviewReport, reviewID.Hex(), reporterID.Hex())
	fresh, err := s.cache.SetNX(ctx, guardKey, true, 0)
	if err != nil {
		s.log.WithError(err).Warn("Report idempotency guard unavailable, falling back to index")
		fresh = true
	}
	if !fresh {
		return s.priorReportResult(ctx, reviewID, reporterID)
	}

	report := &models.ModerationReport{
		ReviewID:   reviewID,
		ReporterID: reporterID,
		Category:   req.Category,
		Reason:     strings.TrimSpace(req.Reason),
		CreatedAt:  time.Now().UTC(),
	}

	// The report and the count move together or not at all.
	var count int
	err = s.txn.RunTransaction(ctx, func(txCtx context.Context) error {
		if err := s.moderationRepo.CreateReport(txCtx, report); err != nil {
			return err
		}
		c, err := s.reviewRepo.IncrementReportCount(txCtx, reviewID)
		if err != nil {
			return fmt.Errorf("failed to increment report count: %w", err)
		}
		count = c
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateReport) {
			return s.priorReportResult(ctx, reviewID, reporterID)
		}
		// Nothing durable was written, so the guard must not outlive the
		// attempt or the reporter would be blocked forever.
		if delErr := s.cache.Delete(ctx, guardKey); delErr != nil {
			s.log.WithError(delErr).Warn("Failed to clear report idempotency guard")
		}
		return nil, err
	}

	s.log.LogModerationEvent(reviewID, "review_reported", map[string]interface{}{
		"reporter_id":  reporterID.Hex(),
		"category":     req.Category,
		"report_count": count,
	})

	if count == s.cfg.EscalationThreshold {
		s.escalate(ctx, review, count, req.Category)
	}

	return &models.ReportResult{OK: true, Category: req.Category, Reports: count}, nil
}

// priorReportResult rebuilds the response a repeat reporter originally got.
func (s *moderationService) priorReportResult(ctx context.Context, reviewID, reporterID primitive.ObjectID) (*models.ReportResult, error) {
	prior, err := s.moderationRepo.GetReport(ctx, reviewID, reporterID)
	if err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return &models.ReportResult{OK: true, Category: prior.Category, Reports: review.ReportCount}, nil
}

// escalate signals the admin channel that a review crossed the threshold.
// Failures are logged, never surfaced to the reporter.
func (s *moderationService) escalate(ctx context.Context, review *models.Review, count int, category models.ReportCategory) {
	s.log.LogModerationEvent(review.ID, "review_escalated", map[string]interface{}{
		"driver_id":    review.DriverID.Hex(),
		"report_count": count,
	})

	if s.notifier == nil {
		return
	}
	event := &notify.EscalationEvent{
		ReviewID:    review.ID.Hex(),
		DriverID:    review.DriverID.Hex(),
		ReportCount: count,
		Category:    string(category),
	}
	if err := s.notifier.NotifyEscalation(ctx, event); err != nil {
		s.log.WithError(err).WithReviewID(review.ID).Error("Failed to publish escalation notification")
	}
}

func (s *moderationService) ListReports(ctx context.Context, reviewID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ModerationReport, int64, error) {
	return s.moderationRepo.GetReportsByReview(ctx, reviewID, params)
}

func (s *moderationService) CreateNote(ctx context.Context, actor models.AuditActor, req *CreateNoteRequest, reason, correlationID string) (*models.ModerationNote, error) {
	note := &models.ModerationNote{
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		AuthorID:    actor.ID,
		Notes:       strings.TrimSpace(req.Notes),
		EvidenceURL: req.EvidenceURL,
		CreatedAt:   time.Now().UTC(),
	}

	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        models.AuditActionModerationNote,
		Entity:        models.AuditEntity{Type: string(req.EntityType), ID: req.EntityID},
		Reason:        reason,
		CorrelationID: correlationID,
	}

	err := s.audit.RecordAction(ctx, entry, func(txCtx context.Context) error {
		return s.moderationRepo.CreateNote(txCtx, note)
	})
	if err != nil {
		return nil, err
	}

	return note, nil
}

func (s *moderationService) ListNotes(ctx context.Context, entityType models.ModerationEntityType, entityID string, params *utils.PaginationParams) ([]*models.ModerationNote, int64, error) {
	return s.moderationRepo.GetNotesByEntity(ctx, entityType, entityID, params)
}

func (s *moderationService) RequestEvidenceUploadURL(ctx context.Context, adminID primitive.ObjectID, req *EvidenceUploadRequest) (*storage.UploadTicket, error) {
	key := fmt.Sprintf("evidence/%s/%s_%s", adminID.Hex(), uuid.New().String(), req.FileName)

	ticket, err := s.evidence.PresignUpload(ctx, &storage.PresignRequest{
		Key:         key,
		ContentType: req.ContentType,
		Size:        req.Size,
		Expires:     s.cfg.EvidenceURLTTL,
	})
	if err != nil {
		s.log.WithError(err).Error("Evidence store presign failed")
		return nil, fmt.Errorf("%w: evidence store presign failed", ErrUpstreamUnavailable)
	}

	return ticket, nil
}
