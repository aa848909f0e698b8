package interfaces

import (
	"context"

	"campusride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)

	// SetStatus applies an admin correction under the caller's context so
	// the change joins the admin action's transaction. The update only
	// matches while the booking is still in from, so a concurrent change
	// between the caller's read and the write cannot slip an illegal
	// transition through; a miss reports ErrIllegalStateTransition.
	SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error
}
