package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RolePassenger UserRole = "passenger"
	RoleDriver    UserRole = "driver"
	RoleAdmin     UserRole = "admin"
)

// User is the account slice this service reads and moderates. Suspension and
// the driver publish ban are admin-only flags; both changes are audited with
// before/after snapshots.
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Role            UserRole           `json:"role" bson:"role"`
	Suspended       bool               `json:"suspended" bson:"suspended"`
	SuspendedAt     *time.Time         `json:"suspended_at,omitempty" bson:"suspended_at,omitempty"`
	PublishBanned   bool               `json:"publish_banned" bson:"publish_banned"`
	PublishBanUntil *time.Time         `json:"publish_ban_until,omitempty" bson:"publish_ban_until,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// SuspensionSnapshot is the audited before/after view of a user's
// suspension state.
type SuspensionSnapshot struct {
	Suspended bool `json:"suspended" bson:"suspended"`
}

// PublishBanSnapshot is the audited before/after view of a driver's
// publish-ban state.
type PublishBanSnapshot struct {
	Banned bool       `json:"banned" bson:"banned"`
	Until  *time.Time `json:"until,omitempty" bson:"until,omitempty"`
}
