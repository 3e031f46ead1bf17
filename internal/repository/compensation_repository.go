package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/club-engine/internal/domain"
)

type compensationRepository struct {
	db *sqlx.DB
}

func NewCompensationRepository(db *sqlx.DB) CompensationRepository {
	return &compensationRepository{db: db}
}

const compensationSelect = `
	SELECT c.id, c.period, c.staff_member_id, TRIM(m.first_name || ' ' || m.last_name) AS staff_member_name,
	       c.activity_id, a.name AS activity_name, c.amount
	FROM compensations c
	JOIN members m ON m.id = c.staff_member_id
	JOIN activities a ON a.id = c.activity_id
`

func (r *compensationRepository) Create(ctx context.Context, compensation *domain.Compensation) error {
	query := `
		INSERT INTO compensations (id, period, staff_member_id, activity_id, amount)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		compensation.ID,
		compensation.Period,
		compensation.StaffMemberID,
		compensation.ActivityID,
		compensation.Amount,
	)

	return translate(err, "creating compensation")
}

func (r *compensationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Compensation, error) {
	var compensation domain.Compensation
	if err := conn(ctx, r.db).GetContext(ctx, &compensation, compensationSelect+` WHERE c.id = $1`, id); err != nil {
		return nil, translate(err, "getting compensation")
	}

	return &compensation, nil
}

func (r *compensationRepository) List(ctx context.Context, filter domain.CompensationFilter) ([]*domain.Compensation, error) {
	var w where
	if filter.StaffMemberID != nil {
		w.add("c.staff_member_id = $%d", *filter.StaffMemberID)
	}
	if filter.ActivityID != nil {
		w.add("c.activity_id = $%d", *filter.ActivityID)
	}
	if filter.Period != "" {
		w.add("c.period = $%d", filter.Period)
	}

	var compensations []*domain.Compensation
	query := compensationSelect + w.String() + ` ORDER BY c.period, staff_member_name, c.id`
	if err := conn(ctx, r.db).SelectContext(ctx, &compensations, query, w.args...); err != nil {
		return nil, translate(err, "listing compensations")
	}

	return compensations, nil
}

func (r *compensationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM compensations WHERE id = $1`, id)
	if err != nil {
		return translate(err, "deleting compensation")
	}

	return expectOne(res)
}
