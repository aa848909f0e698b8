package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions enumerates the legal target states for an admin
// correction, keyed by current state. The table is owned by the booking
// subsystem; corrections consult it rather than redefining workflow rules.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusRejected:  {BookingStatusPending},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

type Booking struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      primitive.ObjectID `json:"trip_id" bson:"trip_id"`
	PassengerID primitive.ObjectID `json:"passenger_id" bson:"passenger_id"`
	Status      BookingStatus      `json:"status" bson:"status"`
	Seats       int                `json:"seats" bson:"seats"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CanTransitionTo reports whether target is a legal correction from the
// booking's current state.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	for _, s := range bookingTransitions[b.Status] {
		if s == target {
			return true
		}
	}
	return false
}
