package service

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/cache"
	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

// DueService drives the due state machine. Each transition runs in its own
// transaction holding a row lock on the due.
type DueService struct {
	DueRepo       repository.DueRepository
	tx            repository.Transactor
	store         ProofStore
	cache         DueCache
	maxProofBytes int64
	clock         func() time.Time
}

func NewDueService(
	dueRepo repository.DueRepository,
	tx repository.Transactor,
	store ProofStore,
	cache DueCache,
	maxProofBytes int64,
) *DueService {
	if maxProofBytes <= 0 {
		maxProofBytes = domain.ProofMaxBytes
	}
	return &DueService{
		DueRepo:       dueRepo,
		tx:            tx,
		store:         store,
		cache:         cache,
		maxProofBytes: maxProofBytes,
		clock:         time.Now,
	}
}

// WithClock replaces the time source.
func (s *DueService) WithClock(clock func() time.Time) *DueService {
	s.clock = clock
	return s
}

func (s *DueService) Now() time.Time {
	return s.clock()
}

// SubmitProof validates and stores a proof of payment and moves the due to review.
func (s *DueService) SubmitProof(ctx context.Context, id uuid.UUID, upload *domain.ProofUpload) (*domain.Due, error) {
	if err := domain.ValidateProof(upload, s.maxProofBytes); err != nil {
		return nil, err
	}

	var (
		due      *domain.Due
		saved    string
		replaced string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.DueRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return repoError(err, "due", id)
		}
		if err := d.CanSubmitProof(); err != nil {
			return err
		}

		// the declared size is client supplied; bound the stream as well
		limited := io.LimitReader(upload.Content, s.maxProofBytes+1)
		ref, err := s.store.Save(ctx, d.ID, upload.Filename, limited)
		if err != nil {
			return customError.WrapStorageError(err)
		}
		saved = ref.Path
		if ref.Size > s.maxProofBytes {
			return domain.ValidateProof(&domain.ProofUpload{
				Filename: upload.Filename,
				Size:     ref.Size,
				Content:  upload.Content,
			}, s.maxProofBytes)
		}

		if replaced, err = d.AttachProof(ref); err != nil {
			return err
		}
		if err := s.DueRepo.Update(ctx, d); err != nil {
			return repoError(err, "due", id)
		}
		due = d
		return nil
	})
	if err != nil {
		if saved != "" {
			s.removeProof(ctx, saved)
		}
		return nil, err
	}

	if replaced != "" {
		s.removeProof(ctx, replaced)
	}
	s.invalidate(ctx)

	logger.Info("due", "Proof submitted for due %s (%s)", due.ID, *due.ProofContentType)
	return due, nil
}

// ApprovePayment marks the due paid now. An attached proof is kept.
func (s *DueService) ApprovePayment(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	due, err := s.transition(ctx, id, func(d *domain.Due) error {
		return d.Approve(s.clock())
	})
	if err != nil {
		return nil, err
	}

	logger.Info("due", "Payment approved for due %s (proof attached: %t)", due.ID, due.HasProof())
	return due, nil
}

// RejectPayment discards the attached proof and returns the due to overdue.
func (s *DueService) RejectPayment(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	var removed string
	due, err := s.transition(ctx, id, func(d *domain.Due) (err error) {
		removed, err = d.Reject()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.removeProof(ctx, removed)

	logger.Info("due", "Payment rejected for due %s", due.ID)
	return due, nil
}

// RegisterPayment records a direct payment at the given instant, or now.
func (s *DueService) RegisterPayment(ctx context.Context, id uuid.UUID, at *time.Time) (*domain.Due, error) {
	paidAt := s.clock()
	if at != nil {
		paidAt = *at
	}

	due, err := s.transition(ctx, id, func(d *domain.Due) error {
		return d.RegisterPayment(paidAt)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("due", "Payment registered for due %s at %s", due.ID, paidAt.Format(time.RFC3339))
	return due, nil
}

func (s *DueService) transition(ctx context.Context, id uuid.UUID, apply func(d *domain.Due) error) (*domain.Due, error) {
	var due *domain.Due
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.DueRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return repoError(err, "due", id)
		}
		if err := apply(d); err != nil {
			return err
		}
		if err := s.DueRepo.Update(ctx, d); err != nil {
			return repoError(err, "due", id)
		}
		due = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return due, nil
}

// Get returns a due with its enrollment snapshot.
func (s *DueService) Get(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	due, err := s.DueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "due", id)
	}

	charges, err := s.DueRepo.ListLinkedEnrollments(ctx, id)
	if err != nil {
		return nil, repoError(err, "due", id)
	}
	due.LinkedEnrollments = charges

	return due, nil
}

func (s *DueService) List(ctx context.Context, filter domain.DueFilter) ([]*domain.Due, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, customError.WrapValidation("invalid due status",
			customError.FieldError{Field: "status", Error: "must be one of overdue, pending_review, current"})
	}

	dues, err := s.DueRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return dues, nil
}

// ListOverdue serves the overdue listing from cache when possible.
func (s *DueService) ListOverdue(ctx context.Context) ([]*domain.Due, error) {
	dues, err := s.cache.GetOverdue(ctx)
	if err == nil {
		return dues, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("due", "Overdue cache read failed: %v", err)
	}

	dues, err = s.DueRepo.List(ctx, domain.DueFilter{Status: domain.DueStatusOverdue})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.cache.SetOverdue(ctx, dues); err != nil {
		logger.Warn("due", "Overdue cache write failed: %v", err)
	}
	return dues, nil
}

// ProofFile is an open stored proof ready to be streamed.
type ProofFile struct {
	io.ReadCloser
	Name        string
	ContentType string
}

// OpenProof opens the proof attached to a due. The caller closes the file.
func (s *DueService) OpenProof(ctx context.Context, id uuid.UUID) (*ProofFile, error) {
	due, err := s.DueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "due", id)
	}
	if !due.HasProof() {
		return nil, customError.WrapNotFound("proof of payment for due", id.String())
	}

	rc, err := s.store.Open(ctx, *due.ProofPath)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	contentType := "application/octet-stream"
	if due.ProofContentType != nil && *due.ProofContentType != "" {
		contentType = *due.ProofContentType
	}
	return &ProofFile{
		ReadCloser:  rc,
		Name:        path.Base(*due.ProofPath),
		ContentType: contentType,
	}, nil
}

// removeProof deletes a stored file after the database state no longer references it.
func (s *DueService) removeProof(ctx context.Context, p string) {
	if p == "" {
		return
	}
	if err := s.store.Delete(ctx, p); err != nil {
		logger.Warn("due", "Failed to delete proof file %s: %v", p, err)
	}
}

func (s *DueService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateOverdue(ctx); err != nil {
		logger.Warn("due", "Overdue cache invalidation failed: %v", err)
	}
}
