package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusride/internal/config"
	"campusride/internal/models"
	"campusride/internal/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type adminFixture struct {
	users    *fakeUserRepo
	trips    *fakeTripRepo
	bookings *fakeBookingRepo
	reviews  *fakeReviewRepo
	audit    *fakeAuditRepo
	svc      services.AdminService

	adminID  primitive.ObjectID
	userID   primitive.ObjectID
	driverID primitive.ObjectID
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	f := &adminFixture{
		users:    newFakeUserRepo(),
		trips:    newFakeTripRepo(),
		bookings: newFakeBookingRepo(),
		reviews:  newFakeReviewRepo(),
		audit:    newFakeAuditRepo(),
		adminID:  primitive.NewObjectID(),
		userID:   primitive.NewObjectID(),
		driverID: primitive.NewObjectID(),
	}

	f.users.users[f.adminID] = &models.User{ID: f.adminID, Name: "Dana", Role: models.RoleAdmin}
	f.users.users[f.userID] = &models.User{ID: f.userID, Name: "Pat", Role: models.RolePassenger}
	f.users.users[f.driverID] = &models.User{ID: f.driverID, Name: "Sam", Role: models.RoleDriver}

	log := testLogger()
	cfg := &config.ModerationConfig{
		EscalationThreshold: 3,
		EditWindow:          24 * time.Hour,
		EvidenceURLTTL:      15 * time.Minute,
	}
	auditSvc := services.NewAuditService(f.audit, passthroughTxn{}, log)
	ratingSvc := services.NewRatingService(f.reviews, newFakeRatingRepo(), log)
	reviewSvc := services.NewReviewService(f.reviews, f.trips, ratingSvc, auditSvc, cfg, log)
	moderationSvc := services.NewModerationService(newFakeModerationRepo(), f.reviews, auditSvc, passthroughTxn{}, newFakeCache(), &fakeStorage{}, nil, cfg, log)
	f.svc = services.NewAdminService(f.users, f.trips, f.bookings, reviewSvc, moderationSvc, auditSvc, log)

	return f
}

func TestAdminAuthorization(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetUserSuspension(ctx, f.userID, f.driverID, true, "valid reason"); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("non-admin actor: got %v, want ErrForbidden", err)
	}

	f.users.users[f.adminID].Suspended = true
	if _, err := f.svc.SetUserSuspension(ctx, f.adminID, f.userID, true, "valid reason"); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("suspended admin: got %v, want ErrForbidden", err)
	}
	f.users.users[f.adminID].Suspended = false

	if _, err := f.svc.SetUserSuspension(ctx, f.adminID, f.userID, true, "abc"); !errors.Is(err, services.ErrInvalidReason) {
		t.Errorf("short reason: got %v, want ErrInvalidReason", err)
	}
	if _, err := f.svc.SetUserSuspension(ctx, f.adminID, f.userID, true, "  ab  "); !errors.Is(err, services.ErrInvalidReason) {
		t.Errorf("padded reason: got %v, want ErrInvalidReason", err)
	}

	if len(f.audit.entries) != 0 {
		t.Errorf("rejected actions left %d audit entries", len(f.audit.entries))
	}
}

func TestSetUserSuspension(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	result, err := f.svc.SetUserSuspension(ctx, f.adminID, f.userID, true, "harassment reports")
	if err != nil {
		t.Fatalf("SetUserSuspension: %v", err)
	}
	if result.CorrelationID == "" {
		t.Error("missing correlation ID")
	}
	if !f.users.users[f.userID].Suspended {
		t.Error("user was not suspended")
	}

	if len(f.audit.entries) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(f.audit.entries))
	}
	entry := f.audit.entries[0]
	if entry.Action != models.AuditActionUserSuspend {
		t.Errorf("audit action = %q", entry.Action)
	}
	if entry.From != models.SnapshotJSON(models.SuspensionSnapshot{Suspended: false}) {
		t.Errorf("audit from = %v, want unsuspended snapshot", entry.From)
	}
	if entry.To != models.SnapshotJSON(models.SuspensionSnapshot{Suspended: true}) {
		t.Errorf("audit to = %v, want suspended snapshot", entry.To)
	}
	if entry.CorrelationID != result.CorrelationID {
		t.Error("audit entry correlation ID does not match the response")
	}
}

func TestForceCancelTrip(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	tripID := primitive.NewObjectID()
	f.trips.trips[tripID] = &models.Trip{ID: tripID, DriverID: f.driverID, Status: models.TripStatusScheduled}

	if _, err := f.svc.ForceCancelTrip(ctx, f.adminID, tripID, "driver account under review"); err != nil {
		t.Fatalf("ForceCancelTrip: %v", err)
	}
	if f.trips.trips[tripID].Status != models.TripStatusCancelled {
		t.Error("trip was not cancelled")
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].Action != models.AuditActionTripForceCancel {
		t.Error("force cancel was not audited")
	}
}

func TestCorrectBookingState(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	bookingID := primitive.NewObjectID()
	f.bookings.bookings[bookingID] = &models.Booking{ID: bookingID, Status: models.BookingStatusPending}

	result, err := f.svc.CorrectBookingState(ctx, f.adminID, bookingID, models.BookingStatusConfirmed, "payment verified manually")
	if err != nil {
		t.Fatalf("CorrectBookingState: %v", err)
	}
	if f.bookings.bookings[bookingID].Status != models.BookingStatusConfirmed {
		t.Error("booking state was not corrected")
	}
	if result.From != string(models.BookingStatusPending) || result.To != string(models.BookingStatusConfirmed) {
		t.Errorf("result from/to = %v/%v", result.From, result.To)
	}

	// Completed bookings have no legal corrections.
	f.bookings.bookings[bookingID].Status = models.BookingStatusCompleted
	if _, err := f.svc.CorrectBookingState(ctx, f.adminID, bookingID, models.BookingStatusPending, "some reason"); !errors.Is(err, services.ErrIllegalStateTransition) {
		t.Errorf("illegal transition: got %v, want ErrIllegalStateTransition", err)
	}
	if len(f.audit.entries) != 1 {
		t.Errorf("rejected transition left %d audit entries, want 1", len(f.audit.entries))
	}
}

func TestCorrectBookingStateConcurrentChange(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	bookingID := primitive.NewObjectID()
	f.bookings.bookings[bookingID] = &models.Booking{ID: bookingID, Status: models.BookingStatusPending}

	// Another correction lands between the precondition read and the write;
	// the compare-and-set write must refuse rather than apply a transition
	// that is no longer legal.
	f.bookings.afterGet = func() {
		f.bookings.bookings[bookingID].Status = models.BookingStatusCompleted
	}
	if _, err := f.svc.CorrectBookingState(ctx, f.adminID, bookingID, models.BookingStatusConfirmed, "payment verified manually"); !errors.Is(err, services.ErrIllegalStateTransition) {
		t.Errorf("raced correction: got %v, want ErrIllegalStateTransition", err)
	}
	if f.bookings.bookings[bookingID].Status != models.BookingStatusCompleted {
		t.Error("raced correction overwrote the concurrent change")
	}
	if len(f.audit.entries) != 0 {
		t.Errorf("refused correction left %d audit entries", len(f.audit.entries))
	}
}

func TestSetDriverPublishBan(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	until := time.Now().UTC().Add(30 * 24 * time.Hour)
	if _, err := f.svc.SetDriverPublishBan(ctx, f.adminID, f.driverID, true, &until, "repeated no-shows"); err != nil {
		t.Fatalf("ban: %v", err)
	}
	driver := f.users.users[f.driverID]
	if !driver.PublishBanned || driver.PublishBanUntil == nil {
		t.Error("driver was not banned with deadline")
	}

	// Unban clears the deadline even if one is supplied.
	if _, err := f.svc.SetDriverPublishBan(ctx, f.adminID, f.driverID, false, &until, "served the ban"); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if driver.PublishBanned || driver.PublishBanUntil != nil {
		t.Error("unban did not clear the ban state")
	}

	if len(f.audit.entries) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(f.audit.entries))
	}
	if f.audit.entries[0].Action != models.AuditActionDriverPublishBan || f.audit.entries[1].Action != models.AuditActionDriverPublishUnban {
		t.Error("ban/unban actions not audited in order")
	}
}
