package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/mocks"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

func TestCompensationService_SummarizePeriod(t *testing.T) {
	repo := new(mocks.MockCompensationRepository)
	svc := NewCompensationService(repo, new(mocks.MockMemberRepository), new(mocks.MockActivityRepository))

	rows := []*domain.Compensation{
		{ID: uuid.New(), Period: "2025-03", Amount: decimal.RequireFromString("1200.50")},
		{ID: uuid.New(), Period: "2025-03", Amount: decimal.RequireFromString("799.50")},
	}
	repo.On("List", mock.Anything, domain.CompensationFilter{Period: "2025-03"}).Return(rows, nil)

	summary, err := svc.SummarizePeriod(context.Background(), " 2025-03 ")

	require.NoError(t, err)
	assert.Equal(t, "2025-03", summary.Period)
	assert.Equal(t, 2, summary.Count)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(2000)))

	for _, bad := range []string{"", "2025-13", "March"} {
		_, err := svc.SummarizePeriod(context.Background(), bad)
		assert.ErrorIs(t, err, customError.ErrValidation, bad)
	}
}

func TestCompensationService_Create(t *testing.T) {
	repo := new(mocks.MockCompensationRepository)
	members := new(mocks.MockMemberRepository)
	activities := new(mocks.MockActivityRepository)
	svc := NewCompensationService(repo, members, activities)

	staff := staffMember()
	plain := billingMember("Ana")
	activity := &domain.Activity{ID: uuid.New(), Name: "Swimming"}
	members.On("GetByID", mock.Anything, staff.ID).Return(staff, nil)
	members.On("GetByID", mock.Anything, plain.ID).Return(plain, nil)
	activities.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), &domain.CreateCompensationRequest{
		Period: "2025-03", StaffMemberID: plain.ID, ActivityID: activity.ID, Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, customError.ErrValidation)

	created, err := svc.Create(context.Background(), &domain.CreateCompensationRequest{
		Period: "2025-03", StaffMemberID: staff.ID, ActivityID: activity.ID, Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Swimming", created.ActivityName)
	assert.Equal(t, "Coach Diaz", created.StaffMemberName)

	for _, amount := range []string{"-1", "100000000", "10.999"} {
		_, err := svc.Create(context.Background(), &domain.CreateCompensationRequest{
			Period: "2025-03", StaffMemberID: staff.ID, ActivityID: activity.ID, Amount: decimal.RequireFromString(amount),
		})
		assert.ErrorIs(t, err, customError.ErrValidation, amount)
	}
	repo.AssertNumberOfCalls(t, "Create", 1)
}
