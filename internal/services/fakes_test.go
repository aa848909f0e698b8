package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusride/internal/models"
	"campusride/internal/services"
	"campusride/internal/utils"
	"campusride/pkg/logger"
	"campusride/pkg/notify"
	"campusride/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logger.Logger {
	l, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return l
}

// passthroughTxn runs the callback directly; there is no real transaction in
// the fakes, so atomicity assertions use failingTxn instead.
type passthroughTxn struct{}

func (passthroughTxn) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.TripID == review.TripID && existing.AuthorID == review.AuthorID {
			return services.ErrDuplicateReview
		}
	}
	review.ID = primitive.NewObjectID()
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *fakeReviewRepo) GetByTripAndAuthor(ctx context.Context, tripID, authorID primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.TripID == tripID && review.AuthorID == authorID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, services.ErrNotFound
}

func (r *fakeReviewRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return services.ErrNotFound
	}
	if v, ok := updates["rating"]; ok {
		review.Rating = v.(int)
	}
	if v, ok := updates["text"]; ok {
		review.Text = v.(string)
	}
	if v, ok := updates["tags"]; ok {
		review.Tags = v.([]string)
	}
	if v, ok := updates["updated_at"]; ok {
		review.UpdatedAt = v.(time.Time)
	}
	return nil
}

func (r *fakeReviewRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus, resolve bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return services.ErrNotFound
	}
	review.Status = status
	review.UpdatedAt = time.Now().UTC()
	if resolve {
		now := time.Now().UTC()
		review.ResolvedAt = &now
	}
	return nil
}

func (r *fakeReviewRepo) IncrementReportCount(ctx context.Context, id primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return 0, services.ErrNotFound
	}
	review.ReportCount++
	return review.ReportCount, nil
}

func (r *fakeReviewRepo) GetVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var visible []*models.Review
	for _, review := range r.reviews {
		if review.DriverID == driverID && review.Status == models.ReviewStatusVisible {
			clone := *review
			visible = append(visible, &clone)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, int64(len(visible)), nil
}

func (r *fakeReviewRepo) ScanVisibleStats(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	aggregate := models.EmptyRatingAggregate(driverID)
	var sum int64
	for _, review := range r.reviews {
		if review.DriverID == driverID && review.Status == models.ReviewStatusVisible {
			aggregate.Count++
			aggregate.Histogram[review.Rating]++
			sum += int64(review.Rating)
		}
	}
	if aggregate.Count > 0 {
		aggregate.AvgRating = float64(sum) / float64(aggregate.Count)
	}
	aggregate.UpdatedAt = time.Now().UTC()
	return aggregate, nil
}

type fakeRatingRepo struct {
	mu         sync.Mutex
	aggregates map[primitive.ObjectID]*models.RatingAggregate

	// failUpsert makes the next Upsert fail once.
	failUpsert error
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{aggregates: make(map[primitive.ObjectID]*models.RatingAggregate)}
}

func (r *fakeRatingRepo) Upsert(ctx context.Context, aggregate *models.RatingAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert != nil {
		err := r.failUpsert
		r.failUpsert = nil
		return err
	}
	clone := *aggregate
	r.aggregates[aggregate.DriverID] = &clone
	return nil
}

func (r *fakeRatingRepo) GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	aggregate, ok := r.aggregates[driverID]
	if !ok {
		return models.EmptyRatingAggregate(driverID), nil
	}
	clone := *aggregate
	return &clone, nil
}

type fakeTripRepo struct {
	trips map[primitive.ObjectID]*models.Trip
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[primitive.ObjectID]*models.Trip)}
}

func (r *fakeTripRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	trip, ok := r.trips[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	clone := *trip
	return &clone, nil
}

func (r *fakeTripRepo) ForceCancel(ctx context.Context, id primitive.ObjectID) error {
	trip, ok := r.trips[id]
	if !ok {
		return services.ErrNotFound
	}
	trip.Status = models.TripStatusCancelled
	return nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) SetSuspended(ctx context.Context, id primitive.ObjectID, suspended bool) error {
	user, ok := r.users[id]
	if !ok {
		return services.ErrNotFound
	}
	user.Suspended = suspended
	if suspended {
		now := time.Now().UTC()
		user.SuspendedAt = &now
	} else {
		user.SuspendedAt = nil
	}
	return nil
}

func (r *fakeUserRepo) SetPublishBan(ctx context.Context, id primitive.ObjectID, banned bool, until *time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return services.ErrNotFound
	}
	user.PublishBanned = banned
	user.PublishBanUntil = until
	return nil
}

type fakeBookingRepo struct {
	bookings map[primitive.ObjectID]*models.Booking

	// afterGet runs once after a GetByID, letting tests interleave a
	// concurrent change between a caller's read and its write.
	afterGet func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	clone := *booking
	if r.afterGet != nil {
		hook := r.afterGet
		r.afterGet = nil
		hook()
	}
	return &clone, nil
}

func (r *fakeBookingRepo) SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
	booking, ok := r.bookings[id]
	if !ok || booking.Status != from {
		return services.ErrIllegalStateTransition
	}
	booking.Status = to
	return nil
}

type reportKey struct {
	reviewID   primitive.ObjectID
	reporterID primitive.ObjectID
}

type fakeModerationRepo struct {
	mu      sync.Mutex
	reports map[reportKey]*models.ModerationReport
	notes   []*models.ModerationNote

	// failCreate makes the next CreateReport fail once.
	failCreate error
}

func newFakeModerationRepo() *fakeModerationRepo {
	return &fakeModerationRepo{reports: make(map[reportKey]*models.ModerationReport)}
}

func (r *fakeModerationRepo) CreateReport(ctx context.Context, report *models.ModerationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		err := r.failCreate
		r.failCreate = nil
		return err
	}
	key := reportKey{report.ReviewID, report.ReporterID}
	if _, exists := r.reports[key]; exists {
		return services.ErrDuplicateReport
	}
	report.ID = primitive.NewObjectID()
	clone := *report
	r.reports[key] = &clone
	return nil
}

func (r *fakeModerationRepo) GetReport(ctx context.Context, reviewID, reporterID primitive.ObjectID) (*models.ModerationReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportKey{reviewID, reporterID}]
	if !ok {
		return nil, services.ErrNotFound
	}
	clone := *report
	return &clone, nil
}

func (r *fakeModerationRepo) GetReportsByReview(ctx context.Context, reviewID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ModerationReport, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reports []*models.ModerationReport
	for _, report := range r.reports {
		if report.ReviewID == reviewID {
			clone := *report
			reports = append(reports, &clone)
		}
	}
	return reports, int64(len(reports)), nil
}

func (r *fakeModerationRepo) CreateNote(ctx context.Context, note *models.ModerationNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = primitive.NewObjectID()
	clone := *note
	r.notes = append(r.notes, &clone)
	return nil
}

func (r *fakeModerationRepo) GetNotesByEntity(ctx context.Context, entityType models.ModerationEntityType, entityID string, params *utils.PaginationParams) ([]*models.ModerationNote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var notes []*models.ModerationNote
	for _, note := range r.notes {
		if note.EntityType == entityType && note.EntityID == entityID {
			clone := *note
			notes = append(notes, &clone)
		}
	}
	return notes, int64(len(notes)), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLogEntry
	failing bool
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return services.ErrUpstreamUnavailable
	}
	entry.ID = primitive.NewObjectID()
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeAuditRepo) GetTip(ctx context.Context) (*models.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return nil, nil
	}
	clone := *r.entries[len(r.entries)-1]
	return &clone, nil
}

func (r *fakeAuditRepo) List(ctx context.Context, filter *models.AuditLogFilter, params *utils.PaginationParams) ([]*models.AuditLogEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.AuditLogEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		clone := *r.entries[i]
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) Walk(ctx context.Context, filter *models.AuditLogFilter, fn func(*models.AuditLogEntry) error) error {
	r.mu.Lock()
	entries := make([]*models.AuditLogEntry, len(r.entries))
	for i, e := range r.entries {
		clone := *e
		entries[i] = &clone
	}
	r.mu.Unlock()

	for _, entry := range entries {
		if !matchesFilter(entry, filter) {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

func matchesFilter(entry *models.AuditLogEntry, filter *models.AuditLogFilter) bool {
	if filter == nil {
		return true
	}
	if filter.ActorID != nil && entry.Actor.ID != *filter.ActorID {
		return false
	}
	if filter.Entity != "" && entry.Entity.Type != filter.Entity {
		return false
	}
	if filter.EntityID != "" && entry.Entity.ID != filter.EntityID {
		return false
	}
	if filter.From != nil && entry.When.Before(*filter.From) {
		return false
	}
	if filter.To != nil && entry.When.After(*filter.To) {
		return false
	}
	return true
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]interface{})}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; !ok {
		return services.ErrNotFound
	}
	return nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

func (c *fakeCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = value
	return true, nil
}

type fakeStorage struct {
	presigned []*storage.PresignRequest
	fail      bool
}

func (s *fakeStorage) PresignUpload(ctx context.Context, request *storage.PresignRequest) (*storage.UploadTicket, error) {
	if s.fail {
		return nil, services.ErrUpstreamUnavailable
	}
	s.presigned = append(s.presigned, request)
	return &storage.UploadTicket{
		URL:       "https://evidence.example.com/upload/" + request.Key,
		ObjectURL: "https://evidence.example.com/" + request.Key,
		ExpiresAt: time.Now().Add(request.Expires),
	}, nil
}

func (s *fakeStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://evidence.example.com/" + key, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []*notify.EscalationEvent
}

func (n *fakeNotifier) NotifyEscalation(ctx context.Context, event *notify.EscalationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}
