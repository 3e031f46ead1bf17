package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
)

type mockDueService struct {
	mock.Mock
	now time.Time
}

func (m *mockDueService) Now() time.Time { return m.now }

func (m *mockDueService) Get(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	args := m.Called(ctx, id)
	return dueResult(args)
}

func (m *mockDueService) List(ctx context.Context, filter domain.DueFilter) ([]*domain.Due, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Due), args.Error(1)
}

func (m *mockDueService) ListOverdue(ctx context.Context) ([]*domain.Due, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Due), args.Error(1)
}

func (m *mockDueService) SubmitProof(ctx context.Context, id uuid.UUID, upload *domain.ProofUpload) (*domain.Due, error) {
	args := m.Called(ctx, id, upload)
	return dueResult(args)
}

func (m *mockDueService) OpenProof(ctx context.Context, id uuid.UUID) (*service.ProofFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProofFile), args.Error(1)
}

func (m *mockDueService) ApprovePayment(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	args := m.Called(ctx, id)
	return dueResult(args)
}

func (m *mockDueService) RejectPayment(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	args := m.Called(ctx, id)
	return dueResult(args)
}

func (m *mockDueService) RegisterPayment(ctx context.Context, id uuid.UUID, at *time.Time) (*domain.Due, error) {
	args := m.Called(ctx, id, at)
	return dueResult(args)
}

func dueResult(args mock.Arguments) (*domain.Due, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Due), args.Error(1)
}

type mockGenerationService struct {
	mock.Mock
}

func (m *mockGenerationService) GenerateDues(ctx context.Context, req *domain.GenerateDuesRequest) (*domain.GenerationSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationSummary), args.Error(1)
}
