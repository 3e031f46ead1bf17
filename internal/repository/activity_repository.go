package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/club-engine/internal/domain"
)

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

const activitySelect = `
	SELECT a.id, a.name, a.description, a.starts_at, a.ends_at, a.enrollment_charge, a.status,
	       a.staff_member_id, TRIM(m.first_name || ' ' || m.last_name) AS staff_member_name,
	       (SELECT COUNT(*) FROM enrollments e WHERE e.activity_id = a.id AND e.status = 'confirmed') AS enrolled_count,
	       a.created_at, a.updated_at
	FROM activities a
	JOIN members m ON m.id = a.staff_member_id
`

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, name, description, starts_at, ends_at, enrollment_charge, status, staff_member_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		activity.ID,
		activity.Name,
		activity.Description,
		activity.StartsAt,
		activity.EndsAt,
		activity.EnrollmentCharge,
		activity.Status,
		activity.StaffMemberID,
		activity.CreatedAt,
		activity.UpdatedAt,
	)

	return translate(err, "creating activity")
}

func (r *activityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	var activity domain.Activity
	if err := conn(ctx, r.db).GetContext(ctx, &activity, activitySelect+` WHERE a.id = $1`, id); err != nil {
		return nil, translate(err, "getting activity")
	}

	return &activity, nil
}

func (r *activityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	var w where
	if filter.Status != "" {
		w.add("a.status = $%d", filter.Status)
	}
	if filter.StaffMemberID != nil {
		w.add("a.staff_member_id = $%d", *filter.StaffMemberID)
	}

	var activities []*domain.Activity
	query := activitySelect + w.String() + ` ORDER BY a.starts_at, a.id`
	if err := conn(ctx, r.db).SelectContext(ctx, &activities, query, w.args...); err != nil {
		return nil, translate(err, "listing activities")
	}

	return activities, nil
}

func (r *activityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	query := `
		UPDATE activities
		SET name = $2, description = $3, starts_at = $4, ends_at = $5, enrollment_charge = $6,
		    status = $7, staff_member_id = $8, updated_at = $9
		WHERE id = $1
	`

	activity.UpdatedAt = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		activity.ID,
		activity.Name,
		activity.Description,
		activity.StartsAt,
		activity.EndsAt,
		activity.EnrollmentCharge,
		activity.Status,
		activity.StaffMemberID,
		activity.UpdatedAt,
	)
	if err != nil {
		return translate(err, "updating activity")
	}

	return expectOne(res)
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return translate(err, "deleting activity")
	}

	return expectOne(res)
}
