package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

type ActivityService struct {
	ActivityRepo   repository.ActivityRepository
	MemberRepo     repository.MemberRepository
	EnrollmentRepo repository.EnrollmentRepository
}

func NewActivityService(
	activityRepo repository.ActivityRepository,
	memberRepo repository.MemberRepository,
	enrollmentRepo repository.EnrollmentRepository,
) *ActivityService {
	return &ActivityService{
		ActivityRepo:   activityRepo,
		MemberRepo:     memberRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *ActivityService) Create(ctx context.Context, req *domain.CreateActivityRequest) (*domain.Activity, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, endsBeforeStart()
	}
	if err := chargeError(req.EnrollmentCharge); err != nil {
		return nil, err
	}

	staff, err := s.staffMember(ctx, req.StaffMemberID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	activity := &domain.Activity{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		EnrollmentCharge: req.EnrollmentCharge,
		Status:           domain.ActivityStatusActive,
		StaffMemberID:    staff.ID,
		StaffMemberName:  staff.FullName(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ActivityRepo.Create(ctx, activity); err != nil {
		return nil, repoError(err, "activity", activity.Name)
	}

	logger.Info("activity", "Activity %s created for staff member %s", activity.ID, staff.ID)
	return activity, nil
}

func (s *ActivityService) Get(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	activity, err := s.ActivityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "activity", id)
	}
	return activity, nil
}

func (s *ActivityService) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	activities, err := s.ActivityRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return activities, nil
}

func (s *ActivityService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateActivityRequest) (*domain.Activity, error) {
	activity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		activity.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.StartsAt != nil {
		activity.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		activity.EndsAt = *req.EndsAt
	}
	if req.EnrollmentCharge != nil {
		if err := chargeError(*req.EnrollmentCharge); err != nil {
			return nil, err
		}
		activity.EnrollmentCharge = *req.EnrollmentCharge
	}
	if req.StaffMemberID != nil {
		staff, err := s.staffMember(ctx, *req.StaffMemberID)
		if err != nil {
			return nil, err
		}
		activity.StaffMemberID = staff.ID
		activity.StaffMemberName = staff.FullName()
	}
	if !activity.EndsAt.After(activity.StartsAt) {
		return nil, endsBeforeStart()
	}

	if err := s.ActivityRepo.Update(ctx, activity); err != nil {
		return nil, repoError(err, "activity", id)
	}
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ActivityRepo.Delete(ctx, id); err != nil {
		return repoError(err, "activity", id)
	}
	return nil
}

// Finish closes an activity. Finishing twice is an invalid state.
func (s *ActivityService) Finish(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return s.setStatus(ctx, id, domain.ActivityStatusFinished)
}

func (s *ActivityService) Archive(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return s.setStatus(ctx, id, domain.ActivityStatusArchived)
}

func (s *ActivityService) setStatus(ctx context.Context, id uuid.UUID, status domain.ActivityStatus) (*domain.Activity, error) {
	activity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.Status == status {
		return nil, customError.WrapInvalidState(fmt.Sprintf("activity %s is already %s", id, status))
	}

	activity.Status = status
	if err := s.ActivityRepo.Update(ctx, activity); err != nil {
		return nil, repoError(err, "activity", id)
	}

	logger.Info("activity", "Activity %s is now %s", id, status)
	return activity, nil
}

// ListEnrollees returns the confirmed enrollments of an activity.
func (s *ActivityService) ListEnrollees(ctx context.Context, id uuid.UUID) ([]*domain.Enrollment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.List(ctx, domain.EnrollmentFilter{
		ActivityID: &id,
		Status:     domain.EnrollmentStatusConfirmed,
	})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return enrollments, nil
}

func (s *ActivityService) staffMember(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, err := s.MemberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "member", id)
	}
	if !member.IsStaff() {
		return nil, customError.WrapValidation(fmt.Sprintf("member %s is not staff", id),
			customError.FieldError{Field: "staff_member_id", Error: "must reference a staff member"})
	}
	return member, nil
}

func endsBeforeStart() error {
	return customError.WrapValidation("activity must end after it starts",
		customError.FieldError{Field: "ends_at", Error: "must be after starts_at"})
}

func chargeError(charge decimal.Decimal) error {
	if problem := domain.AmountProblem(charge); problem != "" {
		return customError.WrapValidation("invalid enrollment charge",
			customError.FieldError{Field: "enrollment_charge", Error: problem})
	}
	return nil
}
