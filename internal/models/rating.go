package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingAggregate holds per-driver rating statistics computed over the
// driver's visible reviews. It is always recomputed by a full rescan of the
// visible set, never patched incrementally.
type RatingAggregate struct {
	DriverID  primitive.ObjectID `json:"driver_id" bson:"_id"`
	AvgRating float64            `json:"avg_rating" bson:"avg_rating"`
	Count     int64              `json:"count" bson:"count"`
	Histogram map[int]int64      `json:"histogram" bson:"histogram"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// EmptyRatingAggregate returns the aggregate for a driver with no visible
// reviews: count 0, average 0, empty histogram.
func EmptyRatingAggregate(driverID primitive.ObjectID) *RatingAggregate {
	return &RatingAggregate{
		DriverID:  driverID,
		AvgRating: 0,
		Count:     0,
		Histogram: map[int]int64{},
		UpdatedAt: time.Now(),
	}
}

// DisplayRating rounds the stored full-precision average to one decimal for
// presentation.
func (a *RatingAggregate) DisplayRating() float64 {
	return math.Round(a.AvgRating*10) / 10
}
