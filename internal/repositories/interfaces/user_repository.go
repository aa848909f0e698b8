package interfaces

import (
	"context"
	"time"

	"campusride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// SetSuspended and SetPublishBan run under the caller's context so the flag
	// change joins the admin action's transaction.
	SetSuspended(ctx context.Context, id primitive.ObjectID, suspended bool) error
	SetPublishBan(ctx context.Context, id primitive.ObjectID, banned bool, until *time.Time) error
}
