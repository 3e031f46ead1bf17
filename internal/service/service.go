package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

// ProofStore persists proof-of-payment files outside the database.
type ProofStore interface {
	Save(ctx context.Context, dueID uuid.UUID, filename string, content io.Reader) (domain.ProofRef, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// DueCache holds the overdue listing between mutations.
type DueCache interface {
	GetOverdue(ctx context.Context) ([]*domain.Due, error)
	SetOverdue(ctx context.Context, dues []*domain.Due) error
	InvalidateOverdue(ctx context.Context) error
}

// repoError maps repository sentinels onto business errors.
func repoError(err error, entity string, id interface{}) error {
	if err == nil {
		return nil
	}

	var be *customError.BusinessError
	switch {
	case errors.As(err, &be):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return customError.WrapNotFound(entity, fmt.Sprint(id))
	case errors.Is(err, repository.ErrDuplicate):
		return customError.WrapConflict(fmt.Sprintf("%s already exists", entity))
	case errors.Is(err, repository.ErrInUse):
		return customError.WrapConflict(fmt.Sprintf("%s %v is still referenced", entity, id))
	}
	return customError.WrapDatabaseError(err)
}
