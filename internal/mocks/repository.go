package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/club-engine/internal/domain"
)

// Transactor runs fn directly. Tests that need rollback behaviour assert on
// the error returned by fn instead.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListEligibleForBilling(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockActivityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Activity), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) ExistsConfirmed(ctx context.Context, memberID, activityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, memberID, activityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) ListConfirmedCharges(ctx context.Context, memberID uuid.UUID) ([]domain.EnrollmentCharge, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EnrollmentCharge), args.Error(1)
}

type MockDueRepository struct {
	mock.Mock
}

func (m *MockDueRepository) CreateIfAbsent(ctx context.Context, due *domain.Due) (bool, error) {
	args := m.Called(ctx, due)
	return args.Bool(0), args.Error(1)
}

func (m *MockDueRepository) ExistsForPeriod(ctx context.Context, memberID uuid.UUID, month, year int) (bool, error) {
	args := m.Called(ctx, memberID, month, year)
	return args.Bool(0), args.Error(1)
}

func (m *MockDueRepository) LinkEnrollments(ctx context.Context, dueID uuid.UUID, charges []domain.EnrollmentCharge) error {
	args := m.Called(ctx, dueID, charges)
	return args.Error(0)
}

func (m *MockDueRepository) ListLinkedEnrollments(ctx context.Context, dueID uuid.UUID) ([]domain.EnrollmentCharge, error) {
	args := m.Called(ctx, dueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EnrollmentCharge), args.Error(1)
}

func (m *MockDueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Due), args.Error(1)
}

func (m *MockDueRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Due), args.Error(1)
}

func (m *MockDueRepository) List(ctx context.Context, filter domain.DueFilter) ([]*domain.Due, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Due), args.Error(1)
}

func (m *MockDueRepository) Update(ctx context.Context, due *domain.Due) error {
	args := m.Called(ctx, due)
	return args.Error(0)
}

func (m *MockDueRepository) CountByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	args := m.Called(ctx, memberID)
	return args.Int(0), args.Error(1)
}

type MockCompensationRepository struct {
	mock.Mock
}

func (m *MockCompensationRepository) Create(ctx context.Context, compensation *domain.Compensation) error {
	args := m.Called(ctx, compensation)
	return args.Error(0)
}

func (m *MockCompensationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Compensation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Compensation), args.Error(1)
}

func (m *MockCompensationRepository) List(ctx context.Context, filter domain.CompensationFilter) ([]*domain.Compensation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Compensation), args.Error(1)
}

func (m *MockCompensationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
