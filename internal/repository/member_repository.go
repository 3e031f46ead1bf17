package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/segyhp/club-engine/internal/domain"
)

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

// memberRow carries roles as a Postgres text array.
type memberRow struct {
	domain.Member
	RoleNames pq.StringArray `db:"roles"`
}

func (r memberRow) toDomain() *domain.Member {
	m := r.Member
	m.Roles = make([]domain.Role, 0, len(r.RoleNames))
	for _, name := range r.RoleNames {
		m.Roles = append(m.Roles, domain.Role(name))
	}
	return &m
}

func roleNames(roles []domain.Role) pq.StringArray {
	names := make(pq.StringArray, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return names
}

const memberColumns = `id, username, email, first_name, last_name, dni, phone, status, roles, password_hash, joined_at, updated_at`

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		member.ID,
		member.Username,
		member.Email,
		member.FirstName,
		member.LastName,
		member.DNI,
		member.Phone,
		member.Status,
		roleNames(member.Roles),
		member.PasswordHash,
		member.JoinedAt,
		member.UpdatedAt,
	)

	return translate(err, "creating member")
}

func (r *memberRepository) get(ctx context.Context, cond string, arg interface{}) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE ` + cond

	var row memberRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, arg); err != nil {
		return nil, translate(err, "getting member")
	}

	return row.toDomain(), nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *memberRepository) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	return r.get(ctx, "LOWER(username) = LOWER($1)", username)
}

func (r *memberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error) {
	var w where
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Role != "" {
		w.add("$%d = ANY(roles)", string(filter.Role))
	}

	query := `SELECT ` + memberColumns + ` FROM members` + w.String() + ` ORDER BY last_name, first_name, id`

	return r.selectMembers(ctx, query, w.args...)
}

func (r *memberRepository) ListEligibleForBilling(ctx context.Context) ([]*domain.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE status = $1 AND $2 = ANY(roles)
		ORDER BY id
	`

	return r.selectMembers(ctx, query, domain.MemberStatusActive, string(domain.RoleMember))
}

func (r *memberRepository) selectMembers(ctx context.Context, query string, args ...interface{}) ([]*domain.Member, error) {
	var rows []memberRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, translate(err, "listing members")
	}

	members := make([]*domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET username = $2, email = $3, first_name = $4, last_name = $5, dni = $6, phone = $7,
		    status = $8, roles = $9, updated_at = $10
		WHERE id = $1
	`

	member.UpdatedAt = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		member.ID,
		member.Username,
		member.Email,
		member.FirstName,
		member.LastName,
		member.DNI,
		member.Phone,
		member.Status,
		roleNames(member.Roles),
		member.UpdatedAt,
	)
	if err != nil {
		return translate(err, "updating member")
	}

	return expectOne(res)
}

func (r *memberRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error {
	query := `UPDATE members SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, id, hash)
	if err != nil {
		return translate(err, "updating member password")
	}

	return expectOne(res)
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return translate(err, "deleting member")
	}

	return expectOne(res)
}
