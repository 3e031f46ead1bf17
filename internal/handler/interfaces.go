package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
)

// DueService is the due lifecycle as seen by the HTTP layer.
type DueService interface {
	Now() time.Time
	Get(ctx context.Context, id uuid.UUID) (*domain.Due, error)
	List(ctx context.Context, filter domain.DueFilter) ([]*domain.Due, error)
	ListOverdue(ctx context.Context) ([]*domain.Due, error)
	SubmitProof(ctx context.Context, id uuid.UUID, upload *domain.ProofUpload) (*domain.Due, error)
	OpenProof(ctx context.Context, id uuid.UUID) (*service.ProofFile, error)
	ApprovePayment(ctx context.Context, id uuid.UUID) (*domain.Due, error)
	RejectPayment(ctx context.Context, id uuid.UUID) (*domain.Due, error)
	RegisterPayment(ctx context.Context, id uuid.UUID, at *time.Time) (*domain.Due, error)
}

type GenerationService interface {
	GenerateDues(ctx context.Context, req *domain.GenerateDuesRequest) (*domain.GenerationSummary, error)
}
