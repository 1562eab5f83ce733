package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-marketing-api/internal/application/verify"
	"github.com/go-marketing-api/internal/domain"
	"github.com/go-marketing-api/internal/pkg/id"
)

// Reasons recorded for items whose processing failed. Item failures never
// abort the batch; they are absorbed as status=unknown.
const (
	reasonClassifyFailed = "Verification check failed"
	reasonPersistFailed  = "Could not persist result"
)

type Service interface {
	// Run processes emails synchronously and returns the finalized batch
	// with its results in input order.
	Run(ctx context.Context, userID string, emails []string) (*domain.VerificationBatch, []domain.VerificationResult, error)
	// Start processes emails in the background and returns a Handle for
	// progress observation and cancellation.
	Start(ctx context.Context, userID string, emails []string) (*Handle, error)
	Cancel(ctx context.Context, userID, batchID string) error
	Get(ctx context.Context, userID, batchID string) (*domain.VerificationBatch, error)
	List(ctx context.Context, userID string) ([]domain.VerificationBatch, error)
	Results(ctx context.Context, userID, batchID string) ([]domain.VerificationResult, error)
}

type batchStore interface {
	Put(ctx context.Context, b *domain.VerificationBatch) error
	Get(ctx context.Context, batchID string) (*domain.VerificationBatch, error)
	ListByUser(ctx context.Context, userID string) ([]domain.VerificationBatch, error)
	// IncrementProgress atomically bumps processed_emails and the counter
	// matching itemStatus by one.
	IncrementProgress(ctx context.Context, batchID, itemStatus string) error
	// Finalize sets the terminal status, absolute counters and completed_at.
	// It must fail for a batch that is no longer pending.
	Finalize(ctx context.Context, b *domain.VerificationBatch) error
}

type resultStore interface {
	Put(ctx context.Context, r *domain.VerificationResult) error
	ListByBatch(ctx context.Context, batchID string) ([]domain.VerificationResult, error)
}

type classifier interface {
	Classify(item string, kind verify.Kind) (verify.Result, error)
}

type service struct {
	batches    batchStore
	results    resultStore
	classifier classifier

	mu   sync.RWMutex
	runs map[string]*Handle // in-flight batches by batch_id
}

func NewService(batches batchStore, results resultStore, cls classifier) Service {
	return &service{
		batches:    batches,
		results:    results,
		classifier: cls,
		runs:       make(map[string]*Handle),
	}
}

func (s *service) Run(ctx context.Context, userID string, emails []string) (*domain.VerificationBatch, []domain.VerificationResult, error) {
	h, err := s.begin(ctx, userID, emails)
	if err != nil {
		return nil, nil, err
	}
	b, results := s.process(ctx, h)
	return b, results, nil
}

func (s *service) Start(ctx context.Context, userID string, emails []string) (*Handle, error) {
	h, err := s.begin(ctx, userID, emails)
	if err != nil {
		return nil, err
	}
	// The run must outlive the request that started it.
	runCtx := context.WithoutCancel(ctx)
	go func() {
		s.process(runCtx, h)
	}()
	return h, nil
}

// begin validates input, persists the pending batch row and registers the
// in-flight run. Re-running with the same items always creates a new,
// independent batch; there is no dedup by content.
func (s *service) begin(ctx context.Context, userID string, emails []string) (*Handle, error) {
	if len(emails) == 0 {
		return nil, fmt.Errorf("no emails to verify: %w", domain.ErrEmptyInput)
	}
	b := &domain.VerificationBatch{
		BatchID:   id.New(),
		UserID:    userID,
		Total:     len(emails),
		Status:    domain.BatchStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.batches.Put(ctx, b); err != nil {
		slog.Error("could not create verification batch", "user_id", userID, "err", err)
		return nil, fmt.Errorf("create batch: %w", domain.ErrBatchCreationFailed)
	}
	h := newHandle(b.BatchID, userID, len(emails), emails)
	s.mu.Lock()
	s.runs[b.BatchID] = h
	s.mu.Unlock()
	return h, nil
}

// process drives the classifier over every item in input order. A single
// logical worker owns the run: per-item failures are absorbed as unknown,
// cancellation stops scheduling further items and finalizes failed.
func (s *service) process(ctx context.Context, h *Handle) (*domain.VerificationBatch, []domain.VerificationResult) {
	defer func() {
		s.mu.Lock()
		delete(s.runs, h.BatchID)
		s.mu.Unlock()
		h.finish()
	}()

	results := make([]domain.VerificationResult, 0, len(h.emails))
	cancelled := false

	for i, email := range h.emails {
		if ctx.Err() != nil || h.Cancelled() {
			cancelled = true
			break
		}

		res, err := s.classifier.Classify(email, verify.KindEmail)
		if err != nil {
			slog.Warn("classifier failed for item", "batch_id", h.BatchID, "seq", i, "err", err)
			res = verify.Result{Status: verify.StatusUnknown, Reason: reasonClassifyFailed}
		}

		r := domain.VerificationResult{
			VerificationID: id.New(),
			BatchID:        h.BatchID,
			UserID:         h.userID,
			Seq:            i,
			Email:          email,
			Status:         res.Status,
			Reason:         res.Reason,
			VerifiedAt:     time.Now().UTC(),
		}
		if err := s.results.Put(ctx, &r); err != nil {
			slog.Warn("could not persist verification result", "batch_id", h.BatchID, "seq", i, "err", err)
			r.Status = domain.EmailStatusUnknown
			r.Reason = reasonPersistFailed
		}
		results = append(results, r)
		h.record(r.Status)

		// Best-effort live counter bump; the absolute counts are written
		// again at finalize so a missed increment cannot corrupt the batch.
		if err := s.batches.IncrementProgress(ctx, h.BatchID, r.Status); err != nil {
			slog.Warn("could not update batch progress", "batch_id", h.BatchID, "err", err)
		}
	}

	b := h.snapshotBatch()
	if cancelled {
		b.Status = domain.BatchStatusFailed
	} else {
		b.Status = domain.BatchStatusCompleted
	}
	now := time.Now().UTC()
	b.CompletedAt = &now
	if err := s.batches.Finalize(ctx, b); err != nil {
		slog.Error("could not finalize batch", "batch_id", h.BatchID, "status", b.Status, "err", err)
	}
	return b, results
}

func (s *service) Cancel(ctx context.Context, userID, batchID string) error {
	b, err := s.authorize(ctx, userID, batchID)
	if err != nil {
		return err
	}
	if b.Status != domain.BatchStatusPending {
		return fmt.Errorf("batch %s is %s: %w", batchID, b.Status, domain.ErrConflict)
	}
	s.mu.RLock()
	h := s.runs[batchID]
	s.mu.RUnlock()
	if h == nil {
		return fmt.Errorf("batch %s has no active run: %w", batchID, domain.ErrConflict)
	}
	h.Cancel()
	return nil
}

func (s *service) Get(ctx context.Context, userID, batchID string) (*domain.VerificationBatch, error) {
	return s.authorize(ctx, userID, batchID)
}

func (s *service) List(ctx context.Context, userID string) ([]domain.VerificationBatch, error) {
	return s.batches.ListByUser(ctx, userID)
}

func (s *service) Results(ctx context.Context, userID, batchID string) ([]domain.VerificationResult, error) {
	if _, err := s.authorize(ctx, userID, batchID); err != nil {
		return nil, err
	}
	return s.results.ListByBatch(ctx, batchID)
}

// authorize loads a batch and enforces owner scoping.
func (s *service) authorize(ctx context.Context, userID, batchID string) (*domain.VerificationBatch, error) {
	b, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("batch %s belongs to another user: %w", batchID, domain.ErrForbidden)
	}
	// In-flight runs hold fresher counters than the stored row.
	s.mu.RLock()
	h := s.runs[batchID]
	s.mu.RUnlock()
	if h != nil {
		p := h.Progress()
		b.Processed, b.Valid, b.Invalid, b.Risky, b.Unknown =
			p.Processed, p.Valid, p.Invalid, p.Risky, p.Unknown
	}
	return b, nil
}
