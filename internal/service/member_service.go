package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

type MemberService struct {
	MemberRepo repository.MemberRepository
	DueRepo    repository.DueRepository
}

func NewMemberService(memberRepo repository.MemberRepository, dueRepo repository.DueRepository) *MemberService {
	return &MemberService{
		MemberRepo: memberRepo,
		DueRepo:    dueRepo,
	}
}

// Create registers a member. Without explicit roles the member role is granted.
func (s *MemberService) Create(ctx context.Context, req *domain.CreateMemberRequest) (*domain.Member, error) {
	now := time.Now()
	member := &domain.Member{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		DNI:       strings.TrimSpace(req.DNI),
		Phone:     strings.TrimSpace(req.Phone),
		Status:    req.Status,
		JoinedAt:  now,
		UpdatedAt: now,
	}
	if member.Status == "" {
		member.Status = domain.MemberStatusActive
	}
	if !member.Status.Valid() {
		return nil, invalidStatus(member.Status)
	}

	if len(req.Roles) == 0 {
		member.AddRole(domain.RoleMember)
	}
	for _, role := range req.Roles {
		if !role.Valid() {
			return nil, invalidRole(role)
		}
		member.AddRole(role)
	}

	if req.Password != "" {
		if err := member.SetPassword(req.Password); err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
	}

	if err := s.MemberRepo.Create(ctx, member); err != nil {
		return nil, repoError(err, "member", member.Username)
	}

	logger.Info("member", "Member %s created with roles %v", member.ID, member.Roles)
	return member, nil
}

func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, err := s.MemberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "member", id)
	}
	return member, nil
}

func (s *MemberService) List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidStatus(filter.Status)
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, invalidRole(filter.Role)
	}

	members, err := s.MemberRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return members, nil
}

// Update applies the non-nil fields of req.
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateMemberRequest) (*domain.Member, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		member.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		member.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		member.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		member.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DNI != nil {
		member.DNI = strings.TrimSpace(*req.DNI)
	}
	if req.Phone != nil {
		member.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalidStatus(*req.Status)
		}
		member.Status = *req.Status
	}

	if err := s.MemberRepo.Update(ctx, member); err != nil {
		return nil, repoError(err, "member", id)
	}

	if req.Password != nil {
		if err := member.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		if err := s.MemberRepo.UpdatePassword(ctx, id, member.PasswordHash); err != nil {
			return nil, repoError(err, "member", id)
		}
	}

	return member, nil
}

// Delete removes a member that owns no dues.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.DueRepo.CountByMember(ctx, id)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if count > 0 {
		return customError.WrapConflict(fmt.Sprintf("member %s has %d dues and cannot be deleted", id, count))
	}

	if err := s.MemberRepo.Delete(ctx, id); err != nil {
		return repoError(err, "member", id)
	}

	logger.Info("member", "Member %s deleted", id)
	return nil
}

// AssignRole grants role to the member. Granting a held role is a no-op.
func (s *MemberService) AssignRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.Member, error) {
	if !role.Valid() {
		return nil, invalidRole(role)
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !member.AddRole(role) {
		return member, nil
	}
	if err := s.MemberRepo.Update(ctx, member); err != nil {
		return nil, repoError(err, "member", id)
	}

	logger.Info("member", "Role %s assigned to member %s", role, id)
	return member, nil
}

func (s *MemberService) ChangePassword(ctx context.Context, id uuid.UUID, req *domain.ChangePasswordRequest) error {
	if req.NewPassword != req.Confirmation {
		return customError.WrapValidation("passwords do not match",
			customError.FieldError{Field: "confirmation", Error: "must match new_password"})
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := member.CheckPassword(req.CurrentPassword); err != nil {
		return customError.WrapValidation("current password is incorrect",
			customError.FieldError{Field: "current_password", Error: "is incorrect"})
	}

	if err := member.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.MemberRepo.UpdatePassword(ctx, id, member.PasswordHash); err != nil {
		return repoError(err, "member", id)
	}
	return nil
}

func invalidRole(role domain.Role) error {
	return customError.WrapValidation(fmt.Sprintf("invalid role %q", role),
		customError.FieldError{Field: "role", Error: "must be one of admin, staff, member"})
}

func invalidStatus(status domain.MemberStatus) error {
	return customError.WrapValidation(fmt.Sprintf("invalid member status %q", status),
		customError.FieldError{Field: "status", Error: "must be one of active, inactive, withdrawn"})
}
