package handler

import (
	"net/http"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
	"github.com/segyhp/club-engine/pkg/response"
)

type CompensationHandler struct {
	compensations *service.CompensationService
	validator     *Validator
}

func NewCompensationHandler(compensations *service.CompensationService, validator *Validator) *CompensationHandler {
	return &CompensationHandler{
		compensations: compensations,
		validator:     validator,
	}
}

// List handles GET /compensations?staff_member_id=&activity_id=&period=
func (h *CompensationHandler) List(w http.ResponseWriter, r *http.Request) {
	staffID, err := queryUUID(r, "staff_member_id")
	if err != nil {
		response.FromError(w, err)
		return
	}
	activityID, err := queryUUID(r, "activity_id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	compensations, err := h.compensations.List(r.Context(), domain.CompensationFilter{
		StaffMemberID: staffID,
		ActivityID:    activityID,
		Period:        r.URL.Query().Get("period"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, compensations)
}

func (h *CompensationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCompensationRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	compensation, err := h.compensations.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, compensation)
}

func (h *CompensationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	compensation, err := h.compensations.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, compensation)
}

func (h *CompensationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.compensations.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Summary handles GET /compensations/summary?period=YYYY-MM
func (h *CompensationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.compensations.SummarizePeriod(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}
