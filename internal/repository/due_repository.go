package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/club-engine/internal/domain"
)

type dueRepository struct {
	db *sqlx.DB
}

func NewDueRepository(db *sqlx.DB) DueRepository {
	return &dueRepository{db: db}
}

const dueSelect = `
	SELECT d.id, d.member_id, TRIM(m.first_name || ' ' || m.last_name) AS member_name,
	       d.period_month, d.period_year, d.base_value, d.activity_value, d.total_value,
	       d.due_date, d.payment_date, d.proof_path, d.proof_content_type, d.status,
	       d.created_at, d.updated_at
	FROM dues d
	JOIN members m ON m.id = d.member_id
`

func (r *dueRepository) CreateIfAbsent(ctx context.Context, due *domain.Due) (bool, error) {
	// A conflict on the period key is the idempotent skip; it must not abort the
	// surrounding transaction, so it is resolved in SQL rather than caught as an error.
	query := `
		INSERT INTO dues (id, member_id, period_month, period_year, base_value, activity_value, total_value,
		                  due_date, payment_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT ON CONSTRAINT dues_member_period_key DO NOTHING
		RETURNING created_at
	`

	now := time.Now()
	var createdAt time.Time
	err := conn(ctx, r.db).GetContext(ctx, &createdAt, query,
		due.ID,
		due.MemberID,
		due.PeriodMonth,
		due.PeriodYear,
		due.BaseValue,
		due.ActivityValue,
		due.TotalValue,
		due.DueDate,
		due.PaymentDate,
		due.Status,
		now,
	)
	if err != nil {
		err = translate(err, "creating due")
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}

	due.CreatedAt = createdAt
	due.UpdatedAt = createdAt
	return true, nil
}

func (r *dueRepository) ExistsForPeriod(ctx context.Context, memberID uuid.UUID, month, year int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM dues WHERE member_id = $1 AND period_month = $2 AND period_year = $3
		)
	`

	var exists bool
	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, memberID, month, year); err != nil {
		return false, translate(err, "checking due period")
	}

	return exists, nil
}

func (r *dueRepository) LinkEnrollments(ctx context.Context, dueID uuid.UUID, charges []domain.EnrollmentCharge) error {
	query := `
		INSERT INTO due_enrollments (due_id, enrollment_id, activity_id, activity_name, charge)
		VALUES ($1, $2, $3, $4, $5)
	`

	db := conn(ctx, r.db)
	for _, c := range charges {
		if _, err := db.ExecContext(ctx, query, dueID, c.EnrollmentID, c.ActivityID, c.ActivityName, c.Charge); err != nil {
			return translate(err, "linking due enrollment")
		}
	}

	return nil
}

func (r *dueRepository) ListLinkedEnrollments(ctx context.Context, dueID uuid.UUID) ([]domain.EnrollmentCharge, error) {
	query := `
		SELECT enrollment_id, activity_id, activity_name, charge
		FROM due_enrollments
		WHERE due_id = $1
		ORDER BY activity_name, enrollment_id
	`

	var charges []domain.EnrollmentCharge
	if err := conn(ctx, r.db).SelectContext(ctx, &charges, query, dueID); err != nil {
		return nil, translate(err, "listing due enrollments")
	}

	return charges, nil
}

func (r *dueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	var due domain.Due
	if err := conn(ctx, r.db).GetContext(ctx, &due, dueSelect+` WHERE d.id = $1`, id); err != nil {
		return nil, translate(err, "getting due")
	}

	return &due, nil
}

func (r *dueRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Due, error) {
	var due domain.Due
	query := dueSelect + ` WHERE d.id = $1 FOR UPDATE OF d`
	if err := conn(ctx, r.db).GetContext(ctx, &due, query, id); err != nil {
		return nil, translate(err, "locking due")
	}

	return &due, nil
}

func (r *dueRepository) List(ctx context.Context, filter domain.DueFilter) ([]*domain.Due, error) {
	var w where
	if filter.MemberID != nil {
		w.add("d.member_id = $%d", *filter.MemberID)
	}
	if filter.Status != "" {
		w.add("d.status = $%d", filter.Status)
	}

	var dues []*domain.Due
	query := dueSelect + w.String() + ` ORDER BY d.period_year DESC, d.period_month DESC, d.due_date, d.id`
	if err := conn(ctx, r.db).SelectContext(ctx, &dues, query, w.args...); err != nil {
		return nil, translate(err, "listing dues")
	}

	return dues, nil
}

func (r *dueRepository) Update(ctx context.Context, due *domain.Due) error {
	query := `
		UPDATE dues
		SET payment_date = $2, proof_path = $3, proof_content_type = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	due.UpdatedAt = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		due.ID,
		due.PaymentDate,
		due.ProofPath,
		due.ProofContentType,
		due.Status,
		due.UpdatedAt,
	)
	if err != nil {
		return translate(err, "updating due")
	}

	return expectOne(res)
}

func (r *dueRepository) CountByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	var count int
	if err := conn(ctx, r.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM dues WHERE member_id = $1`, memberID); err != nil {
		return 0, translate(err, "counting member dues")
	}

	return count, nil
}
