package models_test

import (
	"testing"

	"campusride/internal/models"
)

func TestBookingCanTransitionTo(t *testing.T) {
	cases := []struct {
		from  models.BookingStatus
		to    models.BookingStatus
		legal bool
	}{
		{models.BookingStatusPending, models.BookingStatusConfirmed, true},
		{models.BookingStatusPending, models.BookingStatusRejected, true},
		{models.BookingStatusPending, models.BookingStatusCancelled, true},
		{models.BookingStatusPending, models.BookingStatusCompleted, false},
		{models.BookingStatusConfirmed, models.BookingStatusCancelled, true},
		{models.BookingStatusConfirmed, models.BookingStatusCompleted, true},
		{models.BookingStatusConfirmed, models.BookingStatusPending, false},
		{models.BookingStatusRejected, models.BookingStatusPending, true},
		{models.BookingStatusRejected, models.BookingStatusConfirmed, false},
		{models.BookingStatusCancelled, models.BookingStatusPending, false},
		{models.BookingStatusCompleted, models.BookingStatusPending, false},
	}

	for _, tc := range cases {
		booking := &models.Booking{Status: tc.from}
		if got := booking.CanTransitionTo(tc.to); got != tc.legal {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.legal)
		}
	}
}
