package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"campusride/internal/models"
	"campusride/internal/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testEntry(action models.AuditAction) *models.AuditLogEntry {
	return &models.AuditLogEntry{
		Actor:         models.AuditActor{ID: primitive.NewObjectID(), Name: "admin"},
		Action:        action,
		Entity:        models.AuditEntity{Type: "review", ID: primitive.NewObjectID().Hex()},
		Reason:        "policy violation",
		CorrelationID: "corr-1",
	}
}

func TestRecordActionChainsFromGenesis(t *testing.T) {
	repo := newFakeAuditRepo()
	svc := services.NewAuditService(repo, passthroughTxn{}, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RecordAction(ctx, testEntry(models.AuditActionReviewHide), nil); err != nil {
			t.Fatalf("RecordAction: %v", err)
		}
	}

	if len(repo.entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(repo.entries))
	}

	prevHash := models.AuditGenesisHash
	for i, entry := range repo.entries {
		if entry.Seq != int64(i+1) {
			t.Errorf("entry %d has seq %d, want %d", i, entry.Seq, i+1)
		}
		if err := entry.VerifyAgainst(prevHash); err != nil {
			t.Errorf("entry %d: %v", i, err)
		}
		prevHash = entry.Hash
	}
}

func TestRecordActionRunsMutationAtomically(t *testing.T) {
	repo := newFakeAuditRepo()
	svc := services.NewAuditService(repo, passthroughTxn{}, testLogger())
	ctx := context.Background()

	mutated := false
	err := svc.RecordAction(ctx, testEntry(models.AuditActionUserSuspend), func(ctx context.Context) error {
		mutated = true
		return nil
	})
	if err != nil {
		t.Fatalf("RecordAction: %v", err)
	}
	if !mutated {
		t.Error("mutation callback was not invoked")
	}

	boom := errors.New("mutation failed")
	err = svc.RecordAction(ctx, testEntry(models.AuditActionUserSuspend), func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want mutation error", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("failed mutation left %d entries, want 1", len(repo.entries))
	}

	// The chain must resume cleanly after a failed append.
	if err := svc.RecordAction(ctx, testEntry(models.AuditActionUserUnsuspend), nil); err != nil {
		t.Fatalf("RecordAction after failure: %v", err)
	}
	if got := repo.entries[1].Seq; got != 2 {
		t.Errorf("seq after recovery = %d, want 2", got)
	}
	if repo.entries[1].PrevHash != repo.entries[0].Hash {
		t.Error("chain broken after recovery")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	repo := newFakeAuditRepo()
	svc := services.NewAuditService(repo, passthroughTxn{}, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RecordAction(ctx, testEntry(models.AuditActionReviewHide), nil); err != nil {
			t.Fatalf("RecordAction: %v", err)
		}
	}

	if err := svc.Verify(ctx); err != nil {
		t.Fatalf("Verify on intact chain: %v", err)
	}

	repo.entries[1].Reason = "rewritten after the fact"
	if err := svc.Verify(ctx); err == nil {
		t.Error("Verify accepted a tampered entry")
	}
}

func TestExportStreamsVerifiableNDJSON(t *testing.T) {
	repo := newFakeAuditRepo()
	svc := services.NewAuditService(repo, passthroughTxn{}, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RecordAction(ctx, testEntry(models.AuditActionModerationNote), nil); err != nil {
			t.Fatalf("RecordAction: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := svc.Export(ctx, nil, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	prevHash := models.AuditGenesisHash
	for i, line := range lines {
		var entry models.AuditLogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if entry.PrevHash != prevHash {
			t.Errorf("line %d does not chain from previous line", i)
		}
		prevHash = entry.Hash
	}
}
