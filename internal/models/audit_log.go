package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditGenesisHash is the well-known hash the first audit entry chains from.
// It anchors the chain; every later entry's hash incorporates its
// predecessor's hash, making retroactive tampering detectable.
const AuditGenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

type AuditAction string

const (
	AuditActionReviewHide         AuditAction = "review.hide"
	AuditActionReviewUnhide       AuditAction = "review.unhide"
	AuditActionUserSuspend        AuditAction = "user.suspend"
	AuditActionUserUnsuspend      AuditAction = "user.unsuspend"
	AuditActionTripForceCancel    AuditAction = "trip.force_cancel"
	AuditActionBookingCorrect     AuditAction = "booking.correct_state"
	AuditActionDriverPublishBan   AuditAction = "driver.publish_ban"
	AuditActionDriverPublishUnban AuditAction = "driver.publish_unban"
	AuditActionModerationNote     AuditAction = "moderation.note"
)

type AuditActor struct {
	ID   primitive.ObjectID `json:"id" bson:"id"`
	Name string             `json:"name" bson:"name"`
}

type AuditEntity struct {
	Type string `json:"type" bson:"type"`
	ID   string `json:"id" bson:"id"`
}

// AuditLogEntry is a single record in the append-only audit chain. Entries
// are strictly ordered by Seq; Hash covers every field plus PrevHash.
//
// Every hashed field must round-trip through storage byte-identically, or
// verification would flag untampered entries: When carries at most
// millisecond precision (BSON datetimes store no finer), and From/To are
// pre-serialized JSON strings rather than free-form documents.
type AuditLogEntry struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Seq           int64              `json:"seq" bson:"seq"`
	When          time.Time          `json:"when" bson:"when"`
	Actor         AuditActor         `json:"actor" bson:"actor"`
	Action        AuditAction        `json:"action" bson:"action"`
	Entity        AuditEntity        `json:"entity" bson:"entity"`
	Reason        string             `json:"reason,omitempty" bson:"reason,omitempty"`
	From          string             `json:"from,omitempty" bson:"from,omitempty"`
	To            string             `json:"to,omitempty" bson:"to,omitempty"`
	CorrelationID string             `json:"correlation_id" bson:"correlation_id"`
	PrevHash      string             `json:"prev_hash" bson:"prev_hash"`
	Hash          string             `json:"hash" bson:"hash"`
}

// auditTimeFormat fixes millisecond precision so the hashed timestamp
// formats identically before and after a storage round trip.
const auditTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// AuditNow returns the timestamp for a new audit entry, truncated to the
// millisecond precision storage preserves.
func AuditNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// SnapshotJSON canonicalizes a before/after state snapshot for the From and
// To fields.
func SnapshotJSON(v interface{}) string {
	data, _ := json.Marshal(v)
	return string(data)
}

// ComputeHash returns the SHA-256 over the entry's content and its
// predecessor's hash. The Hash field itself is excluded.
func (e *AuditLogEntry) ComputeHash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s|%s|%s|%s|%s|%s|%s",
		e.Seq, e.When.UTC().Format(auditTimeFormat),
		e.Actor.ID.Hex(), e.Actor.Name,
		e.Action, e.Entity.Type, e.Entity.ID,
		e.Reason, e.From, e.To,
		e.CorrelationID, e.PrevHash,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyAgainst checks that the entry chains from prevHash and that its
// stored hash matches its content.
func (e *AuditLogEntry) VerifyAgainst(prevHash string) error {
	if e.PrevHash != prevHash {
		return fmt.Errorf("audit chain broken at seq %d: prev_hash %q, want %q", e.Seq, e.PrevHash, prevHash)
	}
	if e.Hash != e.ComputeHash() {
		return fmt.Errorf("audit entry %d has invalid hash", e.Seq)
	}
	return nil
}

// AuditLogFilter narrows audit listings and exports.
type AuditLogFilter struct {
	ActorID  *primitive.ObjectID
	Entity   string
	EntityID string
	From     *time.Time
	To       *time.Time
}
