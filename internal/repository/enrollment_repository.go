package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/club-engine/internal/domain"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

const enrollmentSelect = `
	SELECT e.id, e.member_id, TRIM(m.first_name || ' ' || m.last_name) AS member_name,
	       e.activity_id, a.name AS activity_name, e.status, e.enrolled_at
	FROM enrollments e
	JOIN members m ON m.id = e.member_id
	JOIN activities a ON a.id = e.activity_id
`

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, member_id, activity_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		enrollment.ID,
		enrollment.MemberID,
		enrollment.ActivityID,
		enrollment.Status,
		enrollment.EnrolledAt,
	)

	return translate(err, "creating enrollment")
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	if err := conn(ctx, r.db).GetContext(ctx, &enrollment, enrollmentSelect+` WHERE e.id = $1`, id); err != nil {
		return nil, translate(err, "getting enrollment")
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) List(ctx context.Context, filter domain.EnrollmentFilter) ([]*domain.Enrollment, error) {
	var w where
	if filter.MemberID != nil {
		w.add("e.member_id = $%d", *filter.MemberID)
	}
	if filter.ActivityID != nil {
		w.add("e.activity_id = $%d", *filter.ActivityID)
	}
	if filter.Status != "" {
		w.add("e.status = $%d", filter.Status)
	}

	var enrollments []*domain.Enrollment
	query := enrollmentSelect + w.String() + ` ORDER BY e.enrolled_at, e.id`
	if err := conn(ctx, r.db).SelectContext(ctx, &enrollments, query, w.args...); err != nil {
		return nil, translate(err, "listing enrollments")
	}

	return enrollments, nil
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE enrollments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return translate(err, "updating enrollment status")
	}

	return expectOne(res)
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return translate(err, "deleting enrollment")
	}

	return expectOne(res)
}

func (r *enrollmentRepository) ExistsConfirmed(ctx context.Context, memberID, activityID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE member_id = $1 AND activity_id = $2 AND status = 'confirmed'
		)
	`

	var exists bool
	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, memberID, activityID); err != nil {
		return false, translate(err, "checking enrollment")
	}

	return exists, nil
}

func (r *enrollmentRepository) ListConfirmedCharges(ctx context.Context, memberID uuid.UUID) ([]domain.EnrollmentCharge, error) {
	query := `
		SELECT e.id AS enrollment_id, a.id AS activity_id, a.name AS activity_name, a.enrollment_charge AS charge
		FROM enrollments e
		JOIN activities a ON a.id = e.activity_id
		WHERE e.member_id = $1 AND e.status = 'confirmed'
		ORDER BY e.enrolled_at, e.id
	`

	var charges []domain.EnrollmentCharge
	if err := conn(ctx, r.db).SelectContext(ctx, &charges, query, memberID); err != nil {
		return nil, translate(err, "listing confirmed enrollment charges")
	}

	return charges, nil
}
