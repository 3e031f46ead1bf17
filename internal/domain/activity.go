package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ActivityStatus string

const (
	ActivityStatusActive   ActivityStatus = "active"
	ActivityStatusFinished ActivityStatus = "finished"
	ActivityStatusArchived ActivityStatus = "archived"
)

// Activity is a class or event run by a staff member. Confirmed enrollments
// add EnrollmentCharge to the enrolled member's next due.
type Activity struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Description      string          `json:"description" db:"description"`
	StartsAt         time.Time       `json:"starts_at" db:"starts_at"`
	EndsAt           time.Time       `json:"ends_at" db:"ends_at"`
	EnrollmentCharge decimal.Decimal `json:"enrollment_charge" db:"enrollment_charge"`
	Status           ActivityStatus  `json:"status" db:"status"`
	StaffMemberID    uuid.UUID       `json:"staff_member_id" db:"staff_member_id"`
	StaffMemberName  string          `json:"staff_member_name" db:"staff_member_name"`
	EnrolledCount    int             `json:"enrolled_count" db:"enrolled_count"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateActivityRequest struct {
	Name             string          `json:"name" validate:"required,max=100"`
	Description      string          `json:"description"`
	StartsAt         time.Time       `json:"starts_at" validate:"required"`
	EndsAt           time.Time       `json:"ends_at" validate:"required,gtfield=StartsAt"`
	EnrollmentCharge decimal.Decimal `json:"enrollment_charge" validate:"gte=0"`
	StaffMemberID    uuid.UUID       `json:"staff_member_id" validate:"required"`
}

type UpdateActivityRequest struct {
	Name             *string          `json:"name" validate:"omitempty,max=100"`
	Description      *string          `json:"description"`
	StartsAt         *time.Time       `json:"starts_at"`
	EndsAt           *time.Time       `json:"ends_at"`
	EnrollmentCharge *decimal.Decimal `json:"enrollment_charge" validate:"omitempty,gte=0"`
	StaffMemberID    *uuid.UUID       `json:"staff_member_id"`
}

type ActivityFilter struct {
	Status        ActivityStatus
	StaffMemberID *uuid.UUID
}
