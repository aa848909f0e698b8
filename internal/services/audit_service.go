package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"campusride/internal/models"
	"campusride/internal/repositories/interfaces"
	"campusride/internal/utils"
	"campusride/pkg/logger"
)

// TxnRunner executes fn inside a storage transaction; the transaction rides
// on the context passed to fn. database.MongoDB satisfies this.
type TxnRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditService interface {
	// RecordAction appends a hash-chained audit entry and, when mutate is
	// non-nil, runs it in the same transaction: the mutation and its audit
	// entry commit atomically or not at all.
	RecordAction(ctx context.Context, entry *models.AuditLogEntry, mutate func(ctx context.Context) error) error

	List(ctx context.Context, filter *models.AuditLogFilter, params *utils.PaginationParams) ([]*models.AuditLogEntry, int64, error)

	// Export streams matching entries to w as newline-delimited JSON, one
	// entry per line, in chain order.
	Export(ctx context.Context, filter *models.AuditLogFilter, w io.Writer) error

	// Verify walks the whole chain and checks every entry's hash against
	// its predecessor. Returns nil if the chain is intact.
	Verify(ctx context.Context) error
}

type auditService struct {
	repo interfaces.AuditLogRepository
	txn  TxnRunner
	log  *logger.Logger

	// The hash chain needs a total order over appends: mu serializes the
	// narrow critical section of (read tip, compute hash, insert).
	mu      sync.Mutex
	tipSeq  int64
	tipHash string
	primed  bool
}

func NewAuditService(repo interfaces.AuditLogRepository, txn TxnRunner, log *logger.Logger) AuditService {
	return &auditService{
		repo: repo,
		txn:  txn,
		log:  log,
	}
}

func (s *auditService) RecordAction(ctx context.Context, entry *models.AuditLogEntry, mutate func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.primeTip(ctx); err != nil {
		return err
	}

	entry.Seq = s.tipSeq + 1
	entry.When = models.AuditNow()
	entry.PrevHash = s.tipHash
	entry.Hash = entry.ComputeHash()

	err := s.txn.RunTransaction(ctx, func(txCtx context.Context) error {
		if mutate != nil {
			if err := mutate(txCtx); err != nil {
				return err
			}
		}
		return s.repo.Append(txCtx, entry)
	})
	if err != nil {
		// The cached tip may no longer match storage; reload on next append.
		s.primed = false
		return err
	}

	s.tipSeq = entry.Seq
	s.tipHash = entry.Hash

	s.log.WithFields(map[string]interface{}{
		"seq":            entry.Seq,
		"action":         entry.Action,
		"entity_type":    entry.Entity.Type,
		"entity_id":      entry.Entity.ID,
		"correlation_id": entry.CorrelationID,
	}).Info("Audit entry appended")

	return nil
}

// primeTip loads the chain tip from storage. Must be called with mu held.
func (s *auditService) primeTip(ctx context.Context) error {
	if s.primed {
		return nil
	}

	tip, err := s.repo.GetTip(ctx)
	if err != nil {
		return fmt.Errorf("failed to load audit chain tip: %w", err)
	}

	if tip == nil {
		s.tipSeq = 0
		s.tipHash = models.AuditGenesisHash
	} else {
		s.tipSeq = tip.Seq
		s.tipHash = tip.Hash
	}
	s.primed = true

	return nil
}

func (s *auditService) List(ctx context.Context, filter *models.AuditLogFilter, params *utils.PaginationParams) ([]*models.AuditLogEntry, int64, error) {
	return s.repo.List(ctx, filter, params)
}

func (s *auditService) Export(ctx context.Context, filter *models.AuditLogFilter, w io.Writer) error {
	encoder := json.NewEncoder(w)

	return s.repo.Walk(ctx, filter, func(entry *models.AuditLogEntry) error {
		return encoder.Encode(entry)
	})
}

func (s *auditService) Verify(ctx context.Context) error {
	prevHash := models.AuditGenesisHash
	var prevSeq int64

	return s.repo.Walk(ctx, nil, func(entry *models.AuditLogEntry) error {
		if entry.Seq != prevSeq+1 {
			return fmt.Errorf("audit chain has a gap: seq %d follows %d", entry.Seq, prevSeq)
		}
		if err := entry.VerifyAgainst(prevHash); err != nil {
			return err
		}
		prevSeq = entry.Seq
		prevHash = entry.Hash
		return nil
	})
}
