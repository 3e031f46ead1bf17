package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/mocks"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

func newMemberService() (*MemberService, *mocks.MockMemberRepository, *mocks.MockDueRepository) {
	members := new(mocks.MockMemberRepository)
	dues := new(mocks.MockDueRepository)
	return NewMemberService(members, dues), members, dues
}

func TestMemberService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       *domain.CreateMemberRequest
		wantRoles []domain.Role
		wantErr   error
	}{
		{
			name:      "defaults to member role",
			req:       &domain.CreateMemberRequest{Username: " ana ", FirstName: "Ana", LastName: "Paz", DNI: "123"},
			wantRoles: []domain.Role{domain.RoleMember},
		},
		{
			name:      "explicit roles are deduplicated",
			req:       &domain.CreateMemberRequest{Username: "coach", DNI: "9", Roles: []domain.Role{domain.RoleStaff, domain.RoleStaff}},
			wantRoles: []domain.Role{domain.RoleStaff},
		},
		{
			name:    "unknown role",
			req:     &domain.CreateMemberRequest{Username: "x", DNI: "1", Roles: []domain.Role{"owner"}},
			wantErr: customError.ErrValidation,
		},
		{
			name:    "unknown status",
			req:     &domain.CreateMemberRequest{Username: "x", DNI: "1", Status: "sleeping"},
			wantErr: customError.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, members, _ := newMemberService()
			members.On("Create", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil).Maybe()

			member, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				members.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoles, member.Roles)
			assert.Equal(t, domain.MemberStatusActive, member.Status)
			assert.Equal(t, strings.TrimSpace(tt.req.Username), member.Username)
		})
	}
}

func TestMemberService_CreateHashesPassword(t *testing.T) {
	svc, members, _ := newMemberService()
	members.On("Create", mock.Anything, mock.Anything).Return(nil)

	member, err := svc.Create(context.Background(), &domain.CreateMemberRequest{Username: "ana", DNI: "1", Password: "secret1"})

	require.NoError(t, err)
	assert.NotEqual(t, []byte("secret1"), member.PasswordHash)
	assert.NoError(t, member.CheckPassword("secret1"))
}

func TestMemberService_CreateDuplicate(t *testing.T) {
	svc, members, _ := newMemberService()
	members.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Create(context.Background(), &domain.CreateMemberRequest{Username: "ana", DNI: "1"})

	assert.ErrorIs(t, err, customError.ErrConflict)
}

func TestMemberService_DeleteProtectsDues(t *testing.T) {
	svc, members, dues := newMemberService()
	withDues, clean := uuid.New(), uuid.New()
	dues.On("CountByMember", mock.Anything, withDues).Return(3, nil)
	dues.On("CountByMember", mock.Anything, clean).Return(0, nil)
	members.On("Delete", mock.Anything, clean).Return(nil)

	err := svc.Delete(context.Background(), withDues)
	assert.ErrorIs(t, err, customError.ErrConflict)
	members.AssertNotCalled(t, "Delete", mock.Anything, withDues)

	assert.NoError(t, svc.Delete(context.Background(), clean))
}

func TestMemberService_AssignRole(t *testing.T) {
	svc, members, _ := newMemberService()
	member := &domain.Member{ID: uuid.New(), Roles: []domain.Role{domain.RoleMember}}
	members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	members.On("Update", mock.Anything, member).Return(nil)

	_, err := svc.AssignRole(context.Background(), member.ID, "superuser")
	assert.ErrorIs(t, err, customError.ErrValidation)

	updated, err := svc.AssignRole(context.Background(), member.ID, domain.RoleStaff)
	require.NoError(t, err)
	assert.True(t, updated.HasStaffAccess())

	// granting again is a no-op
	_, err = svc.AssignRole(context.Background(), member.ID, domain.RoleStaff)
	require.NoError(t, err)
	members.AssertNumberOfCalls(t, "Update", 1)
}

func TestMemberService_ChangePassword(t *testing.T) {
	svc, members, _ := newMemberService()
	member := &domain.Member{ID: uuid.New()}
	require.NoError(t, member.SetPassword("old-password"))
	members.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	members.On("UpdatePassword", mock.Anything, member.ID, mock.Anything).Return(nil)

	err := svc.ChangePassword(context.Background(), member.ID, &domain.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "new-password", Confirmation: "new-password",
	})
	assert.ErrorIs(t, err, customError.ErrValidation)

	err = svc.ChangePassword(context.Background(), member.ID, &domain.ChangePasswordRequest{
		CurrentPassword: "old-password", NewPassword: "new-password", Confirmation: "other",
	})
	assert.ErrorIs(t, err, customError.ErrValidation)

	err = svc.ChangePassword(context.Background(), member.ID, &domain.ChangePasswordRequest{
		CurrentPassword: "old-password", NewPassword: "new-password", Confirmation: "new-password",
	})
	require.NoError(t, err)
	assert.NoError(t, member.CheckPassword("new-password"))
	members.AssertNumberOfCalls(t, "UpdatePassword", 1)
}

func TestMemberService_GetNotFound(t *testing.T) {
	svc, members, _ := newMemberService()
	id := uuid.New()
	members.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(context.Background(), id)

	assert.ErrorIs(t, err, customError.ErrNotFound)
	assert.Equal(t, customError.ErrCodeNotFound, customError.Code(err))
}
