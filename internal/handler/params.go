package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	customError "github.com/segyhp/club-engine/pkg/errors"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, customError.WrapValidation("invalid id",
			customError.FieldError{Field: name, Error: "must be a valid UUID"})
	}
	return id, nil
}

// queryUUID returns nil when the parameter is absent.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, customError.WrapValidation("invalid query parameter",
			customError.FieldError{Field: name, Error: "must be a valid UUID"})
	}
	return &id, nil
}
