package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EnrollmentStatus string

const (
	EnrollmentStatusConfirmed EnrollmentStatus = "confirmed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

type Enrollment struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	MemberID     uuid.UUID        `json:"member_id" db:"member_id"`
	MemberName   string           `json:"member_name" db:"member_name"`
	ActivityID   uuid.UUID        `json:"activity_id" db:"activity_id"`
	ActivityName string           `json:"activity_name" db:"activity_name"`
	Status       EnrollmentStatus `json:"status" db:"status"`
	EnrolledAt   time.Time        `json:"enrolled_at" db:"enrolled_at"`
}

// EnrollmentCharge is a confirmed enrollment together with the activity charge it adds to a due.
type EnrollmentCharge struct {
	EnrollmentID uuid.UUID       `json:"enrollment_id" db:"enrollment_id"`
	ActivityID   uuid.UUID       `json:"activity_id" db:"activity_id"`
	ActivityName string          `json:"activity_name" db:"activity_name"`
	Charge       decimal.Decimal `json:"charge" db:"charge"`
}

type CreateEnrollmentRequest struct {
	MemberID   uuid.UUID `json:"member_id" validate:"required"`
	ActivityID uuid.UUID `json:"activity_id" validate:"required"`
}

type EnrollmentFilter struct {
	MemberID   *uuid.UUID
	ActivityID *uuid.UUID
	Status     EnrollmentStatus
}
