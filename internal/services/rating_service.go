package services

import (
	"context"
	"fmt"
	"sync"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingService interface {
	// Recompute rescans the driver's visible reviews and replaces the stored
	// aggregate with the result. Concurrent recomputes for the same driver
	// are serialized so the stored aggregate always reflects a full scan.
	Recompute(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)

	GetAggregate(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
}

type ratingService struct {
	reviewRepo interfaces.ReviewRepository
	ratingRepo interfaces.RatingRepository
	log        *logger.Logger

	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.Mutex
}

func NewRatingService(reviewRepo interfaces.ReviewRepository, ratingRepo interfaces.RatingRepository, log *logger.Logger) RatingService {
	return &ratingService{
		reviewRepo: reviewRepo,
		ratingRepo: ratingRepo,
		log:        log,
		locks:      make(map[primitive.ObjectID]*sync.Mutex),
	}
}

// driverLock returns the per-driver mutex, creating it on first use. Locks
// are never evicted; the map grows with the set of drivers ever recomputed,
// which stays small relative to review volume.
func (s *ratingService) driverLock(driverID primitive.ObjectID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[driverID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[driverID] = lock
	}
	return lock
}

func (s *ratingService) Recompute(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	lock := s.driverLock(driverID)
	lock.Lock()
	defer lock.Unlock()

	aggregate, err := s.reviewRepo.ScanVisibleStats(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reviews for driver %s: %w", driverID.Hex(), err)
	}

	if err := s.ratingRepo.Upsert(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to store rating aggregate for driver %s: %w", driverID.Hex(), err)
	}

	s.log.WithFields(map[string]interface{}{
		"driver_id":  driverID.Hex(),
		"avg_rating": aggregate.AvgRating,
		"count":      aggregate.Count,
	}).Debug("Rating aggregate recomputed")

	return aggregate, nil
}

func (s *ratingService) GetAggregate(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	return s.ratingRepo.GetByDriverID(ctx, driverID)
}
