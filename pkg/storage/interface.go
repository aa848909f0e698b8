package storage

import (
	"context"
	"time"
)

// Provider is the evidence store behind moderation notes. The service never
// proxies file bytes; it issues short-lived upload tickets and the admin
// client uploads directly to the object store.
type Provider interface {
	// PresignUpload returns a short-lived URL (and any headers the store
	// requires) that the caller can PUT the evidence object to.
	PresignUpload(ctx context.Context, request *PresignRequest) (*UploadTicket, error)

	// GetURL returns a time-limited read URL for a stored object.
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)

	Delete(ctx context.Context, key string) error
}

type PresignRequest struct {
	Key         string        `json:"key"`
	ContentType string        `json:"content_type"`
	Size        int64         `json:"size"`
	Expires     time.Duration `json:"-"`
}

// UploadTicket is handed to the admin client. ObjectURL is the location the
// object will have once uploaded; it is what gets recorded on the note.
type UploadTicket struct {
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	ObjectURL string            `json:"object_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}
