package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Trip is the slice of the trip record this service needs: enough to decide
// review eligibility and to force-cancel on behalf of an admin.
type Trip struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	DriverID     primitive.ObjectID   `json:"driver_id" bson:"driver_id"`
	PassengerIDs []primitive.ObjectID `json:"passenger_ids" bson:"passenger_ids"`
	Status       TripStatus           `json:"status" bson:"status"`
	DepartureAt  time.Time            `json:"departure_at" bson:"departure_at"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// HasPassenger reports whether userID rode on this trip.
func (t *Trip) HasPassenger(userID primitive.ObjectID) bool {
	for _, id := range t.PassengerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
