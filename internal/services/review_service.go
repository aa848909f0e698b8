package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusride/internal/config"
	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/utils"
	"campusride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateReviewRequest struct {
	TripID primitive.ObjectID `json:"trip_id" validate:"required"`
	Rating int                `json:"rating" validate:"required,min=1,max=5"`
	Text   string             `json:"text" validate:"max=2000"`
	Tags   []string           `json:"tags" validate:"max=5,dive,review_tag"`
}

// EditReviewRequest carries a partial update; nil fields are left untouched.
type EditReviewRequest struct {
	Rating *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Text   *string   `json:"text,omitempty" validate:"omitempty,max=2000"`
	Tags   *[]string `json:"tags,omitempty" validate:"omitempty,max=5,dive,review_tag"`
}

// ReviewView is a review decorated with its derived moderation state for
// admin-facing responses.
type ReviewView struct {
	*models.Review
	ModerationState models.ModerationState `json:"moderation_state"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, authorID primitive.ObjectID, req *CreateReviewRequest) (*models.Review, error)
	GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetMyReview(ctx context.Context, tripID, authorID primitive.ObjectID) (*models.Review, error)
	EditReview(ctx context.Context, id, authorID primitive.ObjectID, req *EditReviewRequest) (*models.Review, error)

	// DeleteReview soft-deletes the author's review. Deleted reviews stay in
	// storage for moderation history but leave the visible set.
	DeleteReview(ctx context.Context, id, authorID primitive.ObjectID) error

	ListDriverReviews(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// SetVisibility hides or unhides a review on behalf of an admin, stamps
	// resolved_at, and records the change in the audit log atomically with
	// the mutation. No-ops (already in the target state) are still audited.
	SetVisibility(ctx context.Context, actor models.AuditActor, reviewID primitive.ObjectID, hide bool, reason, correlationID string) (*ReviewView, error)
}

type reviewService struct {
	reviewRepo interfaces.ReviewRepository
	tripRepo   interfaces.TripRepository
	rating     RatingService
	audit      AuditService
	cfg        *config.ModerationConfig
	log        *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	tripRepo interfaces.TripRepository,
	rating RatingService,
	audit AuditService,
	cfg *config.ModerationConfig,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		tripRepo:   tripRepo,
		rating:     rating,
		audit:      audit,
		cfg:        cfg,
		log:        log,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, authorID primitive.ObjectID, req *CreateReviewRequest) (*models.Review, error) {
	if req.Rating < utils.MinReviewRating || req.Rating > utils.MaxReviewRating {
		return nil, ErrInvalidRating
	}
	if err := validateReviewTags(req.Tags); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripStatusCompleted || !trip.HasPassenger(authorID) {
		return nil, ErrTripNotEligible
	}

	now := time.Now().UTC()
	review := &models.Review{
		TripID:    req.TripID,
		AuthorID:  authorID,
		DriverID:  trip.DriverID,
		Rating:    req.Rating,
		Text:      strings.TrimSpace(req.Text),
		Tags:      req.Tags,
		Status:    models.ReviewStatusVisible,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.rating.Recompute(ctx, review.DriverID); err != nil {
		s.log.WithError(err).WithReviewID(review.ID).Error("Failed to recompute rating after review create")
		return nil, fmt.Errorf("%w: %v", ErrAggregateStale, err)
	}

	s.log.WithFields(map[string]interface{}{
		"review_id": review.ID.Hex(),
		"trip_id":   review.TripID.Hex(),
		"driver_id": review.DriverID.Hex(),
		"rating":    review.Rating,
	}).Info("Review created")

	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.Status == models.ReviewStatusDeleted {
		return nil, ErrNotFound
	}
	return review, nil
}

// GetMyReview returns the author's review whatever its status. The unique
// (trip, author) pair means a deleted review still blocks re-creation, so
// the author has to be able to see it.
func (s *reviewService) GetMyReview(ctx context.Context, tripID, authorID primitive.ObjectID) (*models.Review, error) {
	return s.reviewRepo.GetByTripAndAuthor(ctx, tripID, authorID)
}

func (s *reviewService) EditReview(ctx context.Context, id, authorID primitive.ObjectID, req *EditReviewRequest) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch {
	case review.AuthorID != authorID:
		return nil, ErrNotAuthor
	case review.Status == models.ReviewStatusDeleted:
		return nil, ErrReviewDeleted
	case !now.Before(review.EditableUntil(s.cfg.EditWindow)):
		return nil, ErrEditWindowExpired
	}

	updates := map[string]interface{}{"updated_at": now}
	ratingChanged := false

	if req.Rating != nil {
		if *req.Rating < utils.MinReviewRating || *req.Rating > utils.MaxReviewRating {
			return nil, ErrInvalidRating
		}
		ratingChanged = *req.Rating != review.Rating
		updates["rating"] = *req.Rating
		review.Rating = *req.Rating
	}
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		updates["text"] = text
		review.Text = text
	}
	if req.Tags != nil {
		if err := validateReviewTags(*req.Tags); err != nil {
			return nil, err
		}
		updates["tags"] = *req.Tags
		review.Tags = *req.Tags
	}

	if err := s.reviewRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	review.UpdatedAt = now

	// Hidden reviews are outside the visible set, so their rating changes do
	// not move the aggregate until an unhide rescans them.
	if ratingChanged && review.Status == models.ReviewStatusVisible {
		if _, err := s.rating.Recompute(ctx, review.DriverID); err != nil {
			s.log.WithError(err).WithReviewID(id).Error("Failed to recompute rating after review edit")
			return nil, fmt.Errorf("%w: %v", ErrAggregateStale, err)
		}
	}

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id, authorID primitive.ObjectID) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	switch {
	case review.AuthorID != authorID:
		return ErrNotAuthor
	case review.Status == models.ReviewStatusDeleted:
		return ErrReviewDeleted
	case !now.Before(review.EditableUntil(s.cfg.EditWindow)):
		return ErrEditWindowExpired
	}

	wasVisible := review.Status == models.ReviewStatusVisible
	if err := s.reviewRepo.UpdateStatus(ctx, id, models.ReviewStatusDeleted, false); err != nil {
		return err
	}

	if wasVisible {
		if _, err := s.rating.Recompute(ctx, review.DriverID); err != nil {
			s.log.WithError(err).WithReviewID(id).Error("Failed to recompute rating after review delete")
			return fmt.Errorf("%w: %v", ErrAggregateStale, err)
		}
	}

	s.log.WithReviewID(id).Info("Review deleted by author")

	return nil
}

func (s *reviewService) ListDriverReviews(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetVisibleByDriver(ctx, driverID, params)
}

func (s *reviewService) SetVisibility(ctx context.Context, actor models.AuditActor, reviewID primitive.ObjectID, hide bool, reason, correlationID string) (*ReviewView, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == models.ReviewStatusDeleted {
		return nil, ErrReviewDeleted
	}

	target := models.ReviewStatusVisible
	action := models.AuditActionReviewUnhide
	if hide {
		target = models.ReviewStatusHidden
		action = models.AuditActionReviewHide
	}

	from := review.Status
	entry := &models.AuditLogEntry{
		Actor:         actor,
		Action:        action,
		Entity:        models.AuditEntity{Type: string(models.ModerationEntityReview), ID: reviewID.Hex()},
		Reason:        reason,
		From:          string(from),
		To:            string(target),
		CorrelationID: correlationID,
	}

	err = s.audit.RecordAction(ctx, entry, func(txCtx context.Context) error {
		return s.reviewRepo.UpdateStatus(txCtx, reviewID, target, true)
	})
	if err != nil {
		return nil, err
	}

	// The audit entry is already committed; a recompute failure leaves the
	// aggregate stale, which callers must hear about and retry.
	if from != target {
		if _, err := s.rating.Recompute(ctx, review.DriverID); err != nil {
			s.log.WithError(err).WithReviewID(reviewID).Error("Failed to recompute rating after visibility change")
			return nil, fmt.Errorf("%w: %v", ErrAggregateStale, err)
		}
	}

	now := time.Now().UTC()
	review.Status = target
	review.ResolvedAt = &now
	review.UpdatedAt = now

	return &ReviewView{
		Review:          review,
		ModerationState: review.ModerationStateOf(s.cfg.EscalationThreshold),
	}, nil
}

func validateReviewTags(tags []string) error {
	if len(tags) > utils.MaxReviewTags {
		return fmt.Errorf("%w: at most %d tags allowed", ErrInvalidTags, utils.MaxReviewTags)
	}
	for _, tag := range tags {
		if !isValidReviewTag(tag) {
			return fmt.Errorf("%w: unknown tag %q", ErrInvalidTags, tag)
		}
	}
	return nil
}

func isValidReviewTag(tag string) bool {
	for _, valid := range models.ValidReviewTags {
		if tag == valid {
			return true
		}
	}
	return false
}
