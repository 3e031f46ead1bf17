package domain

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/club-engine/pkg/errors"
	"github.com/segyhp/club-engine/pkg/utils"
)

type DueStatus string

// Due states. A due is created overdue and may cycle back to overdue when a proof is rejected.
const (
	DueStatusOverdue       DueStatus = "overdue"
	DueStatusPendingReview DueStatus = "pending_review"
	DueStatusCurrent       DueStatus = "current"
)

func (s DueStatus) Valid() bool {
	switch s {
	case DueStatusOverdue, DueStatusPendingReview, DueStatusCurrent:
		return true
	}
	return false
}

// Proof of payment limits
const (
	ProofMaxBytes int64 = 3 * 1024 * 1024
	DefaultDueDay       = 10
	MaxDueDay           = 28
)

var ProofExtensions = []string{"pdf", "jpg", "jpeg", "png"}

// Due is one member's billing obligation for one (month, year) period.
// ActivityValue and TotalValue are a snapshot taken at generation time.
type Due struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	MemberID         uuid.UUID       `json:"member_id" db:"member_id"`
	MemberName       string          `json:"member_name" db:"member_name"`
	PeriodMonth      int             `json:"period_month" db:"period_month"`
	PeriodYear       int             `json:"period_year" db:"period_year"`
	BaseValue        decimal.Decimal `json:"base_value" db:"base_value"`
	ActivityValue    decimal.Decimal `json:"activity_value" db:"activity_value"`
	TotalValue       decimal.Decimal `json:"total_value" db:"total_value"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	PaymentDate      *time.Time      `json:"payment_date" db:"payment_date"`
	ProofPath        *string         `json:"-" db:"proof_path"`
	ProofContentType *string         `json:"proof_content_type,omitempty" db:"proof_content_type"`
	Status           DueStatus       `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`

	LinkedEnrollments []EnrollmentCharge `json:"linked_enrollments,omitempty" db:"-"`
}

// NewDue builds an overdue, unpaid due for member with the given enrollment snapshot.
func NewDue(member *Member, month, year int, baseValue decimal.Decimal, dueDate time.Time, charges []EnrollmentCharge) *Due {
	amounts := make([]decimal.Decimal, 0, len(charges))
	for _, c := range charges {
		amounts = append(amounts, c.Charge)
	}
	activity := utils.SumDecimals(amounts...)

	return &Due{
		ID:                uuid.New(),
		MemberID:          member.ID,
		MemberName:        member.FullName(),
		PeriodMonth:       month,
		PeriodYear:        year,
		BaseValue:         baseValue,
		ActivityValue:     activity,
		TotalValue:        baseValue.Add(activity),
		DueDate:           dueDate,
		Status:            DueStatusOverdue,
		LinkedEnrollments: charges,
	}
}

func (d *Due) Period() string {
	return utils.FormatPeriod(d.PeriodMonth, d.PeriodYear)
}

func (d *Due) HasProof() bool {
	return d.ProofPath != nil && *d.ProofPath != ""
}

// DaysOverdue is 0 once paid or before the due date, otherwise whole days since DueDate.
func (d *Due) DaysOverdue(now time.Time) int {
	if d.PaymentDate != nil {
		return 0
	}
	return utils.DaysElapsed(d.DueDate, now)
}

// CanSubmitProof checks the state precondition for attaching a proof.
func (d *Due) CanSubmitProof() error {
	if d.Status == DueStatusCurrent {
		return customError.WrapInvalidState(fmt.Sprintf("due %s is already paid", d.ID))
	}
	return nil
}

// AttachProof stores the proof reference and moves the due to review.
// It returns the path of a previously attached proof, if any, so the caller can remove it.
func (d *Due) AttachProof(ref ProofRef) (replaced string, err error) {
	if err := d.CanSubmitProof(); err != nil {
		return "", err
	}
	if d.HasProof() {
		replaced = *d.ProofPath
	}
	path, contentType := ref.Path, ref.ContentType
	d.ProofPath = &path
	d.ProofContentType = &contentType
	d.Status = DueStatusPendingReview
	return replaced, nil
}

// Approve records the payment. A proof is not required.
func (d *Due) Approve(now time.Time) error {
	if d.Status == DueStatusCurrent {
		return customError.WrapInvalidState(fmt.Sprintf("due %s is already paid", d.ID))
	}
	d.PaymentDate = &now
	d.Status = DueStatusCurrent
	return nil
}

// Reject discards the attached proof and returns the due to overdue.
// Only a due under review can be rejected. The returned path is the
// stored file that must be deleted.
func (d *Due) Reject() (removed string, err error) {
	if !d.HasProof() {
		return "", customError.WrapValidation(fmt.Sprintf("due %s has no proof of payment attached", d.ID))
	}
	if d.Status != DueStatusPendingReview {
		return "", customError.WrapInvalidState(fmt.Sprintf("due %s is %s, only dues pending review can be rejected", d.ID, d.Status))
	}
	removed = *d.ProofPath
	d.ProofPath = nil
	d.ProofContentType = nil
	d.Status = DueStatusOverdue
	return removed, nil
}

// RegisterPayment marks the due paid at the given instant.
func (d *Due) RegisterPayment(at time.Time) error {
	if d.PaymentDate != nil {
		return customError.WrapConflict(fmt.Sprintf("due %s already has a payment registered", d.ID))
	}
	d.PaymentDate = &at
	d.Status = DueStatusCurrent
	return nil
}

// ProofRef points at a stored proof-of-payment file.
type ProofRef struct {
	Path        string
	ContentType string
	Size        int64
}

// ProofUpload is an incoming proof-of-payment file.
type ProofUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ValidateProof checks presence, extension and size of an uploaded proof.
func ValidateProof(upload *ProofUpload, maxBytes int64) error {
	if upload == nil || upload.Content == nil || strings.TrimSpace(upload.Filename) == "" {
		return customError.WrapValidation("proof of payment file is required",
			customError.FieldError{Field: "proof", Error: "this field is required"})
	}

	ext := utils.FileExtension(upload.Filename)
	allowed := false
	for _, e := range ProofExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return customError.WrapValidation(
			fmt.Sprintf("file type %q is not allowed", ext),
			customError.FieldError{Field: "proof", Error: "allowed extensions: " + strings.Join(ProofExtensions, ", ")},
		)
	}

	if maxBytes <= 0 {
		maxBytes = ProofMaxBytes
	}
	if upload.Size > maxBytes {
		return customError.WrapValidation(
			fmt.Sprintf("file is %d bytes, the limit is %d", upload.Size, maxBytes),
			customError.FieldError{Field: "proof", Error: fmt.Sprintf("file must not exceed %d MiB", maxBytes/(1024*1024))},
		)
	}
	return nil
}

// DTOs for requests and responses

type GenerateDuesRequest struct {
	Month     int              `json:"month" validate:"required,min=1,max=12"`
	Year      int              `json:"year" validate:"required,min=1,max=9999"`
	BaseValue *decimal.Decimal `json:"base_value" validate:"required"`
	DueDay    int              `json:"due_day" validate:"omitempty,min=1,max=28"`
}

// Validate checks the generation inputs independent of the transport.
func (r *GenerateDuesRequest) Validate() error {
	var fields []customError.FieldError
	if r.Month < 1 || r.Month > 12 {
		fields = append(fields, customError.FieldError{Field: "month", Error: "must be between 1 and 12"})
	}
	if r.Year < 1 || r.Year > 9999 {
		fields = append(fields, customError.FieldError{Field: "year", Error: "must be a valid year"})
	}
	if r.BaseValue == nil {
		fields = append(fields, customError.FieldError{Field: "base_value", Error: "this field is required"})
	} else if problem := AmountProblem(*r.BaseValue); problem != "" {
		fields = append(fields, customError.FieldError{Field: "base_value", Error: problem})
	}
	if r.DueDay < 1 || r.DueDay > MaxDueDay {
		fields = append(fields, customError.FieldError{Field: "due_day", Error: "must be between 1 and 28"})
	}
	if len(fields) > 0 {
		return customError.WrapValidation("invalid generation parameters", fields...)
	}
	return nil
}

type GeneratedDue struct {
	DueID           uuid.UUID       `json:"due_id"`
	MemberID        uuid.UUID       `json:"member_id"`
	MemberName      string          `json:"member_name"`
	BaseValue       decimal.Decimal `json:"base_value"`
	ActivityValue   decimal.Decimal `json:"activity_value"`
	TotalValue      decimal.Decimal `json:"total_value"`
	EnrollmentCount int             `json:"enrollment_count"`
}

type GenerationSummary struct {
	Period        string          `json:"period"`
	DueDate       time.Time       `json:"due_date"`
	CreatedCount  int             `json:"created_count"`
	ExistingCount int             `json:"existing_count"`
	Dues          []*GeneratedDue `json:"dues"`
}

type RegisterPaymentRequest struct {
	PaymentDate *time.Time `json:"payment_date"`
}

// DueResponse adds read-time derived values to a due.
type DueResponse struct {
	*Due
	Period      string `json:"period"`
	DaysOverdue int    `json:"days_overdue"`
	HasProof    bool   `json:"has_proof"`
}

func NewDueResponse(d *Due, now time.Time) *DueResponse {
	return &DueResponse{
		Due:         d,
		Period:      d.Period(),
		DaysOverdue: d.DaysOverdue(now),
		HasProof:    d.HasProof(),
	}
}

type DueFilter struct {
	MemberID *uuid.UUID
	Status   DueStatus
}
