package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
	"github.com/segyhp/club-engine/pkg/utils"
)

// GenerationService creates the dues of a billing period in one transaction.
type GenerationService struct {
	MemberRepo     repository.MemberRepository
	EnrollmentRepo repository.EnrollmentRepository
	DueRepo        repository.DueRepository
	tx             repository.Transactor
	cache          DueCache
	loc            *time.Location
}

func NewGenerationService(
	memberRepo repository.MemberRepository,
	enrollmentRepo repository.EnrollmentRepository,
	dueRepo repository.DueRepository,
	tx repository.Transactor,
	cache DueCache,
	loc *time.Location,
) *GenerationService {
	if loc == nil {
		loc = time.UTC
	}
	return &GenerationService{
		MemberRepo:     memberRepo,
		EnrollmentRepo: enrollmentRepo,
		DueRepo:        dueRepo,
		tx:             tx,
		cache:          cache,
		loc:            loc,
	}
}

// GenerateDues bills every eligible member for the period. Members already
// billed for the period are skipped and counted in ExistingCount.
func (s *GenerationService) GenerateDues(ctx context.Context, req *domain.GenerateDuesRequest) (*domain.GenerationSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dueDate := utils.CalculateDueDate(req.Year, req.Month, req.DueDay, s.loc)
	summary := &domain.GenerationSummary{
		Period:  utils.FormatPeriod(req.Month, req.Year),
		DueDate: dueDate,
		Dues:    []*domain.GeneratedDue{},
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		members, err := s.MemberRepo.ListEligibleForBilling(ctx)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, member := range members {
			exists, err := s.DueRepo.ExistsForPeriod(ctx, member.ID, req.Month, req.Year)
			if err != nil {
				return customError.WrapDatabaseError(err)
			}
			if exists {
				summary.ExistingCount++
				continue
			}

			charges, err := s.EnrollmentRepo.ListConfirmedCharges(ctx, member.ID)
			if err != nil {
				return customError.WrapDatabaseError(err)
			}

			due := domain.NewDue(member, req.Month, req.Year, *req.BaseValue, dueDate, charges)
			if due.TotalValue.GreaterThanOrEqual(domain.MaxAmount) {
				return customError.WrapValidation(fmt.Sprintf("due total for member %s exceeds the maximum amount", member.ID),
					customError.FieldError{Field: "base_value", Error: "due total must be less than 100000000"})
			}

			// a concurrent run may have billed the member since the check above
			created, err := s.DueRepo.CreateIfAbsent(ctx, due)
			if err != nil {
				return repoError(err, "due", due.ID)
			}
			if !created {
				summary.ExistingCount++
				continue
			}

			if len(charges) > 0 {
				if err := s.DueRepo.LinkEnrollments(ctx, due.ID, charges); err != nil {
					return repoError(err, "due enrollment", due.ID)
				}
			}

			summary.Dues = append(summary.Dues, &domain.GeneratedDue{
				DueID:           due.ID,
				MemberID:        member.ID,
				MemberName:      due.MemberName,
				BaseValue:       due.BaseValue,
				ActivityValue:   due.ActivityValue,
				TotalValue:      due.TotalValue,
				EnrollmentCount: len(charges),
			})
		}
		return nil
	})
	if err != nil {
		logger.Error("generation", "Due generation for %s failed: %v", summary.Period, err)
		return nil, err
	}

	summary.CreatedCount = len(summary.Dues)
	if err := s.cache.InvalidateOverdue(ctx); err != nil {
		logger.Warn("generation", "Overdue cache invalidation failed: %v", err)
	}

	logger.Info("generation", "Generated %d dues for %s (%d already billed)",
		summary.CreatedCount, summary.Period, summary.ExistingCount)
	return summary, nil
}

// GenerateForMonth bills the calendar month containing at, in the service time zone.
func (s *GenerationService) GenerateForMonth(ctx context.Context, at time.Time, baseValue decimal.Decimal, dueDay int) (*domain.GenerationSummary, error) {
	local := at.In(s.loc)
	return s.GenerateDues(ctx, &domain.GenerateDuesRequest{
		Month:     int(local.Month()),
		Year:      local.Year(),
		BaseValue: &baseValue,
		DueDay:    dueDay,
	})
}
