package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
)

// Transactor runs fn inside a single database transaction. Repository calls made
// with the context passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
	List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error)

	// ListEligibleForBilling returns active members holding the member role, ordered by id.
	ListEligibleForBilling(ctx context.Context) ([]*domain.Member, error)

	Update(ctx context.Context, member *domain.Member) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityRepository defines the interface for activity data operations
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnrollmentRepository defines the interface for enrollment data operations
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsConfirmed reports whether member already holds a confirmed enrollment in activity.
	ExistsConfirmed(ctx context.Context, memberID, activityID uuid.UUID) (bool, error)

	// ListConfirmedCharges returns the member's confirmed enrollments with their activity charge.
	ListConfirmedCharges(ctx context.Context, memberID uuid.UUID) ([]domain.EnrollmentCharge, error)
}

// DueRepository defines the interface for due data operations
type DueRepository interface {
	// CreateIfAbsent inserts due unless one already exists for its member and period.
	// It reports false, without error, when the period was already billed.
	CreateIfAbsent(ctx context.Context, due *domain.Due) (bool, error)

	ExistsForPeriod(ctx context.Context, memberID uuid.UUID, month, year int) (bool, error)
	LinkEnrollments(ctx context.Context, dueID uuid.UUID, charges []domain.EnrollmentCharge) error
	ListLinkedEnrollments(ctx context.Context, dueID uuid.UUID) ([]domain.EnrollmentCharge, error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Due, error)

	// GetByIDForUpdate locks the due row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Due, error)

	List(ctx context.Context, filter domain.DueFilter) ([]*domain.Due, error)
	Update(ctx context.Context, due *domain.Due) error
	CountByMember(ctx context.Context, memberID uuid.UUID) (int, error)
}

// CompensationRepository defines the interface for staff compensation data operations
type CompensationRepository interface {
	Create(ctx context.Context, compensation *domain.Compensation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Compensation, error)
	List(ctx context.Context, filter domain.CompensationFilter) ([]*domain.Compensation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
