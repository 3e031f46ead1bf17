package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compensation is an amount owed to a staff member for running an activity during a period.
type Compensation struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Period          string          `json:"period" db:"period"` // YYYY-MM
	StaffMemberID   uuid.UUID       `json:"staff_member_id" db:"staff_member_id"`
	StaffMemberName string          `json:"staff_member_name" db:"staff_member_name"`
	ActivityID      uuid.UUID       `json:"activity_id" db:"activity_id"`
	ActivityName    string          `json:"activity_name" db:"activity_name"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
}

type CreateCompensationRequest struct {
	Period        string          `json:"period" validate:"required"`
	StaffMemberID uuid.UUID       `json:"staff_member_id" validate:"required"`
	ActivityID    uuid.UUID       `json:"activity_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gte=0"`
}

type CompensationFilter struct {
	StaffMemberID *uuid.UUID
	ActivityID    *uuid.UUID
	Period        string
}

type CompensationSummary struct {
	Period        string          `json:"period"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	Compensations []*Compensation `json:"compensations"`
}
