package interfaces

import (
	"context"

	"campusride/internal/models"
	"campusride/internal/utils"
)

type AuditLogRepository interface {
	// Append inserts a fully hashed entry. Callers serialize appends so Seq
	// and the hash chain stay well-defined.
	Append(ctx context.Context, entry *models.AuditLogEntry) error

	// GetTip returns the highest-seq entry, or nil when the log is empty.
	GetTip(ctx context.Context) (*models.AuditLogEntry, error)

	List(ctx context.Context, filter *models.AuditLogFilter, params *utils.PaginationParams) ([]*models.AuditLogEntry, int64, error)

	// Walk streams entries in ascending seq order, applying fn to each.
	// Iteration stops on the first error from fn.
	Walk(ctx context.Context, filter *models.AuditLogFilter, fn func(*models.AuditLogEntry) error) error
}
