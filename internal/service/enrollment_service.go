package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

type EnrollmentService struct {
	EnrollmentRepo repository.EnrollmentRepository
	MemberRepo     repository.MemberRepository
	ActivityRepo   repository.ActivityRepository
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	memberRepo repository.MemberRepository,
	activityRepo repository.ActivityRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		MemberRepo:     memberRepo,
		ActivityRepo:   activityRepo,
	}
}

// Create enrolls a member in an active activity.
func (s *EnrollmentService) Create(ctx context.Context, req *domain.CreateEnrollmentRequest) (*domain.Enrollment, error) {
	member, err := s.MemberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, repoError(err, "member", req.MemberID)
	}
	if !member.IsMember() {
		return nil, customError.WrapValidation(fmt.Sprintf("user %s does not hold the member role", member.ID),
			customError.FieldError{Field: "member_id", Error: "must reference a member"})
	}

	activity, err := s.ActivityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, repoError(err, "activity", req.ActivityID)
	}
	if activity.Status != domain.ActivityStatusActive {
		return nil, customError.WrapValidation(fmt.Sprintf("activity %s is %s", activity.ID, activity.Status),
			customError.FieldError{Field: "activity_id", Error: "activity is not active"})
	}

	exists, err := s.EnrollmentRepo.ExistsConfirmed(ctx, member.ID, activity.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		return nil, alreadyEnrolled(member, activity)
	}

	enrollment := &domain.Enrollment{
		ID:           uuid.New(),
		MemberID:     member.ID,
		MemberName:   member.FullName(),
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		Status:       domain.EnrollmentStatusConfirmed,
		EnrolledAt:   time.Now(),
	}
	if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
		// lost a race against the partial unique index
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadyEnrolled(member, activity)
		}
		return nil, repoError(err, "enrollment", enrollment.ID)
	}

	logger.Info("enrollment", "Member %s enrolled in activity %s", member.ID, activity.ID)
	return enrollment, nil
}

func (s *EnrollmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "enrollment", id)
	}
	return enrollment, nil
}

func (s *EnrollmentService) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	enrollments, err := s.EnrollmentRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return enrollments, nil
}

// ListConfirmedByMember returns the member's confirmed enrollments with their charges.
func (s *EnrollmentService) ListConfirmedByMember(ctx context.Context, memberID uuid.UUID) ([]domain.EnrollmentCharge, error) {
	charges, err := s.EnrollmentRepo.ListConfirmedCharges(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return charges, nil
}

func (s *EnrollmentService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == domain.EnrollmentStatusCancelled {
		return nil, customError.WrapInvalidState(fmt.Sprintf("enrollment %s is already cancelled", id))
	}

	if err := s.EnrollmentRepo.UpdateStatus(ctx, id, domain.EnrollmentStatusCancelled); err != nil {
		return nil, repoError(err, "enrollment", id)
	}
	enrollment.Status = domain.EnrollmentStatusCancelled

	logger.Info("enrollment", "Enrollment %s cancelled", id)
	return enrollment, nil
}

func (s *EnrollmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.EnrollmentRepo.Delete(ctx, id); err != nil {
		return repoError(err, "enrollment", id)
	}
	return nil
}

func alreadyEnrolled(member *domain.Member, activity *domain.Activity) error {
	return customError.WrapValidation(
		fmt.Sprintf("%s is already enrolled in %s", member.FullName(), activity.Name),
		customError.FieldError{Field: "activity_id", Error: "member is already enrolled"},
	)
}
