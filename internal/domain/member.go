package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusWithdrawn MemberStatus = "withdrawn"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusWithdrawn:
		return true
	}
	return false
}

// Role is a capability held by a member. A member may hold several.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleMember Role = "member"
)

var AllRoles = []Role{RoleAdmin, RoleStaff, RoleMember}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Member represents a club user: a paying member, a staff instructor or an admin.
type Member struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Username     string       `json:"username" db:"username"`
	Email        string       `json:"email" db:"email"`
	FirstName    string       `json:"first_name" db:"first_name"`
	LastName     string       `json:"last_name" db:"last_name"`
	DNI          string       `json:"dni" db:"dni"`
	Phone        string       `json:"phone" db:"phone"`
	Status       MemberStatus `json:"status" db:"status"`
	Roles        []Role       `json:"roles" db:"-"`
	PasswordHash []byte       `json:"-" db:"password_hash"`
	JoinedAt     time.Time    `json:"joined_at" db:"joined_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (m *Member) HasRole(role Role) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole grants role and reports whether it was newly added.
func (m *Member) AddRole(role Role) bool {
	if m.HasRole(role) {
		return false
	}
	m.Roles = append(m.Roles, role)
	return true
}

func (m *Member) IsAdmin() bool  { return m.HasRole(RoleAdmin) }
func (m *Member) IsStaff() bool  { return m.HasRole(RoleStaff) }
func (m *Member) IsMember() bool { return m.HasRole(RoleMember) }

// HasStaffAccess replaces the old stored staff flag: admins and staff both qualify.
func (m *Member) HasStaffAccess() bool {
	return m.IsAdmin() || m.IsStaff()
}

func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// EligibleForBilling reports whether the member receives a due each period.
func (m *Member) EligibleForBilling() bool {
	return m.IsActive() && m.IsMember()
}

func (m *Member) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = hash
	return nil
}

func (m *Member) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(m.PasswordHash, []byte(pwd))
}

// DTOs for requests and responses

type MemberResponse struct {
	*Member
	FullName       string `json:"full_name"`
	IsAdmin        bool   `json:"is_admin"`
	IsStaff        bool   `json:"is_staff"`
	IsMember       bool   `json:"is_member"`
	HasStaffAccess bool   `json:"has_staff_access"`
}

func NewMemberResponse(m *Member) *MemberResponse {
	return &MemberResponse{
		Member:         m,
		FullName:       m.FullName(),
		IsAdmin:        m.IsAdmin(),
		IsStaff:        m.IsStaff(),
		IsMember:       m.IsMember(),
		HasStaffAccess: m.HasStaffAccess(),
	}
}

type CreateMemberRequest struct {
	Username  string       `json:"username" validate:"required,min=3,max=150"`
	Email     string       `json:"email" validate:"omitempty,email"`
	FirstName string       `json:"first_name" validate:"required"`
	LastName  string       `json:"last_name" validate:"required"`
	DNI       string       `json:"dni" validate:"required,max=10"`
	Phone     string       `json:"phone" validate:"omitempty,max=20"`
	Status    MemberStatus `json:"status" validate:"omitempty,oneof=active inactive withdrawn"`
	Roles     []Role       `json:"roles" validate:"omitempty,dive,oneof=admin staff member"`
	Password  string       `json:"password" validate:"omitempty,min=6"`
}

type UpdateMemberRequest struct {
	Username  *string       `json:"username" validate:"omitempty,min=3,max=150"`
	Email     *string       `json:"email" validate:"omitempty,email"`
	FirstName *string       `json:"first_name"`
	LastName  *string       `json:"last_name"`
	DNI       *string       `json:"dni" validate:"omitempty,max=10"`
	Phone     *string       `json:"phone" validate:"omitempty,max=20"`
	Status    *MemberStatus `json:"status" validate:"omitempty,oneof=active inactive withdrawn"`
	Password  *string       `json:"password" validate:"omitempty,min=6"`
}

type AssignRoleRequest struct {
	Role Role `json:"role" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	Confirmation    string `json:"confirmation" validate:"required,eqfield=NewPassword"`
}

type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=150"`
	Email        string `json:"email" validate:"omitempty,email"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	DNI          string `json:"dni" validate:"required,max=10"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Password     string `json:"password" validate:"required,min=6"`
	Confirmation string `json:"confirmation" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type MemberFilter struct {
	Status MemberStatus
	Role   Role
}
