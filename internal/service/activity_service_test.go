package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/mocks"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

type activityFixture struct {
	activities  *mocks.MockActivityRepository
	members     *mocks.MockMemberRepository
	enrollments *mocks.MockEnrollmentRepository
	svc         *ActivityService
}

func newActivityFixture() *activityFixture {
	f := &activityFixture{
		activities:  new(mocks.MockActivityRepository),
		members:     new(mocks.MockMemberRepository),
		enrollments: new(mocks.MockEnrollmentRepository),
	}
	f.svc = NewActivityService(f.activities, f.members, f.enrollments)
	return f
}

func staffMember() *domain.Member {
	return &domain.Member{ID: uuid.New(), FirstName: "Coach", LastName: "Diaz", Status: domain.MemberStatusActive, Roles: []domain.Role{domain.RoleStaff}}
}

func TestActivityService_Create(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	staff := staffMember()
	plain := billingMember("Ana")

	tests := []struct {
		name    string
		req     *domain.CreateActivityRequest
		wantErr error
	}{
		{
			name: "valid",
			req: &domain.CreateActivityRequest{Name: "Swimming", StartsAt: start, EndsAt: start.Add(time.Hour),
				EnrollmentCharge: decimal.NewFromInt(1500), StaffMemberID: staff.ID},
		},
		{
			name: "ends before start",
			req: &domain.CreateActivityRequest{Name: "Swimming", StartsAt: start, EndsAt: start,
				StaffMemberID: staff.ID},
			wantErr: customError.ErrValidation,
		},
		{
			name: "negative charge",
			req: &domain.CreateActivityRequest{Name: "Swimming", StartsAt: start, EndsAt: start.Add(time.Hour),
				EnrollmentCharge: decimal.NewFromInt(-1), StaffMemberID: staff.ID},
			wantErr: customError.ErrValidation,
		},
		{
			name: "charge above column precision",
			req: &domain.CreateActivityRequest{Name: "Swimming", StartsAt: start, EndsAt: start.Add(time.Hour),
				EnrollmentCharge: decimal.NewFromInt(100000000), StaffMemberID: staff.ID},
			wantErr: customError.ErrValidation,
		},
		{
			name: "charge with three decimals",
			req: &domain.CreateActivityRequest{Name: "Swimming", StartsAt: start, EndsAt: start.Add(time.Hour),
				EnrollmentCharge: decimal.RequireFromString("15.005"), StaffMemberID: staff.ID},
			wantErr: customError.ErrValidation,
		},
		{
			name: "instructor without staff role",
			req: &domain.CreateActivityRequest{Name: "Swimming", StartsAt: start, EndsAt: start.Add(time.Hour),
				StaffMemberID: plain.ID},
			wantErr: customError.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newActivityFixture()
			f.members.On("GetByID", mock.Anything, staff.ID).Return(staff, nil).Maybe()
			f.members.On("GetByID", mock.Anything, plain.ID).Return(plain, nil).Maybe()
			f.activities.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

			activity, err := f.svc.Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.activities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ActivityStatusActive, activity.Status)
			assert.Equal(t, "Coach Diaz", activity.StaffMemberName)
		})
	}
}

func TestActivityService_FinishTwice(t *testing.T) {
	f := newActivityFixture()
	activity := &domain.Activity{ID: uuid.New(), Status: domain.ActivityStatusActive}
	f.activities.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)
	f.activities.On("Update", mock.Anything, activity).Return(nil)

	finished, err := f.svc.Finish(context.Background(), activity.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityStatusFinished, finished.Status)

	_, err = f.svc.Finish(context.Background(), activity.ID)
	assert.ErrorIs(t, err, customError.ErrInvalidState)

	archived, err := f.svc.Archive(context.Background(), activity.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityStatusArchived, archived.Status)
}

func TestActivityService_UpdateKeepsWindowValid(t *testing.T) {
	f := newActivityFixture()
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	activity := &domain.Activity{ID: uuid.New(), StartsAt: start, EndsAt: start.Add(time.Hour)}
	f.activities.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)

	earlier := start.Add(-time.Minute)
	_, err := f.svc.Update(context.Background(), activity.ID, &domain.UpdateActivityRequest{EndsAt: &earlier})

	assert.ErrorIs(t, err, customError.ErrValidation)
	f.activities.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestActivityService_DeleteReferenced(t *testing.T) {
	f := newActivityFixture()
	id := uuid.New()
	f.activities.On("Delete", mock.Anything, id).Return(repository.ErrInUse)

	err := f.svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, customError.ErrConflict)
}

func TestActivityService_ListEnrollees(t *testing.T) {
	f := newActivityFixture()
	activity := &domain.Activity{ID: uuid.New()}
	enrolled := []*domain.Enrollment{{ID: uuid.New(), ActivityID: activity.ID}}
	f.activities.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)
	f.enrollments.On("List", mock.Anything, domain.EnrollmentFilter{
		ActivityID: &activity.ID,
		Status:     domain.EnrollmentStatusConfirmed,
	}).Return(enrolled, nil)

	got, err := f.svc.ListEnrollees(context.Background(), activity.ID)

	require.NoError(t, err)
	assert.Equal(t, enrolled, got)
}
