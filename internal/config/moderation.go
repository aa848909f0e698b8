package config

import (
	"time"
)

type ModerationConfig struct {
	// EscalationThreshold is the report count at which a review is flagged
	// for priority admin attention.
	EscalationThreshold int           `yaml:"escalation_threshold"`
	EditWindow          time.Duration `yaml:"edit_window"`
	EvidenceURLTTL      time.Duration `yaml:"evidence_url_ttl"`
}

func loadModerationConfig() *ModerationConfig {
	return &ModerationConfig{
		EscalationThreshold: getEnvAsInt("MODERATION_ESCALATION_THRESHOLD", 3),
		EditWindow:          getEnvAsDuration("REVIEW_EDIT_WINDOW", 24*time.Hour),
		EvidenceURLTTL:      getEnvAsDuration("EVIDENCE_UPLOAD_URL_TTL", 15*time.Minute),
	}
}
