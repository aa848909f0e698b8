package notify

import "context"

// EscalationEvent is published when a review's report count crosses the
// escalation threshold, so on-call moderators see it without polling.
type EscalationEvent struct {
	ReviewID    string `json:"review_id"`
	DriverID    string `json:"driver_id"`
	ReportCount int    `json:"report_count"`
	Category    string `json:"category"`
}

// Notifier delivers escalation signals to the admin channel. Delivery is
// best-effort; the moderation workflow never fails a report on notifier
// errors.
type Notifier interface {
	NotifyEscalation(ctx context.Context, event *EscalationEvent) error
}
