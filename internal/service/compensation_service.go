package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
	"github.com/segyhp/club-engine/pkg/utils"
)

type CompensationService struct {
	CompensationRepo repository.CompensationRepository
	MemberRepo       repository.MemberRepository
	ActivityRepo     repository.ActivityRepository
}

func NewCompensationService(
	compensationRepo repository.CompensationRepository,
	memberRepo repository.MemberRepository,
	activityRepo repository.ActivityRepository,
) *CompensationService {
	return &CompensationService{
		CompensationRepo: compensationRepo,
		MemberRepo:       memberRepo,
		ActivityRepo:     activityRepo,
	}
}

func (s *CompensationService) Create(ctx context.Context, req *domain.CreateCompensationRequest) (*domain.Compensation, error) {
	period, err := normalizePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	if problem := domain.AmountProblem(req.Amount); problem != "" {
		return nil, customError.WrapValidation("invalid amount",
			customError.FieldError{Field: "amount", Error: problem})
	}

	staff, err := s.MemberRepo.GetByID(ctx, req.StaffMemberID)
	if err != nil {
		return nil, repoError(err, "member", req.StaffMemberID)
	}
	if !staff.IsStaff() {
		return nil, customError.WrapValidation(fmt.Sprintf("member %s is not staff", staff.ID),
			customError.FieldError{Field: "staff_member_id", Error: "must reference a staff member"})
	}

	activity, err := s.ActivityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, repoError(err, "activity", req.ActivityID)
	}

	compensation := &domain.Compensation{
		ID:              uuid.New(),
		Period:          period,
		StaffMemberID:   staff.ID,
		StaffMemberName: staff.FullName(),
		ActivityID:      activity.ID,
		ActivityName:    activity.Name,
		Amount:          req.Amount,
	}
	if err := s.CompensationRepo.Create(ctx, compensation); err != nil {
		return nil, repoError(err, "compensation", compensation.ID)
	}
	return compensation, nil
}

func (s *CompensationService) Get(ctx context.Context, id uuid.UUID) (*domain.Compensation, error) {
	compensation, err := s.CompensationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "compensation", id)
	}
	return compensation, nil
}

func (s *CompensationService) List(ctx context.Context, filter domain.CompensationFilter) ([]*domain.Compensation, error) {
	compensations, err := s.CompensationRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return compensations, nil
}

func (s *CompensationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.CompensationRepo.Delete(ctx, id); err != nil {
		return repoError(err, "compensation", id)
	}
	return nil
}

// SummarizePeriod totals the compensations owed for one YYYY-MM period.
func (s *CompensationService) SummarizePeriod(ctx context.Context, period string) (*domain.CompensationSummary, error) {
	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	compensations, err := s.CompensationRepo.List(ctx, domain.CompensationFilter{Period: period})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	amounts := make([]decimal.Decimal, 0, len(compensations))
	for _, c := range compensations {
		amounts = append(amounts, c.Amount)
	}
	total := utils.SumDecimals(amounts...)

	return &domain.CompensationSummary{
		Period:        period,
		Total:         total,
		Count:         len(compensations),
		Compensations: compensations,
	}, nil
}

func normalizePeriod(period string) (string, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return "", customError.WrapValidation("a period must be specified",
			customError.FieldError{Field: "period", Error: "this field is required"})
	}
	month, year, err := utils.ParsePeriod(period)
	if err != nil {
		return "", customError.WrapValidation(fmt.Sprintf("invalid period %q", period),
			customError.FieldError{Field: "period", Error: "must be formatted as YYYY-MM"})
	}
	return utils.FormatPeriod(month, year), nil
}
